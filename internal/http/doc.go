// Package http serves the project dashboards, CSV transfer endpoints and
// notifications over net/http.
//
// Routes:
//   - Legacy redirects: /project/, /project/{slug}/
//   - Projects: /projects/, /projects/{slug}/ plus the tags, contributors,
//     insights and info tabs
//   - Tab fragments (AJAX only): /projects/{slug}/ajax/ and
//     /projects/{slug}/ajax/{tags,contributors,insights,info}/
//   - CSV: /projects/{slug}/export-csv/, /projects/{slug}/import-csv/
//   - Notifications: /projects/{slug}/notifications/, /notifications/,
//     /notifications/mark-all-read/
//
// Reverse URLs are built with go-urlkit through Routes.
package http
