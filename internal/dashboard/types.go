package dashboard

import (
	"html/template"
	"time"

	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/users"
)

// ProjectSummary is one entry of the projects list.
type ProjectSummary struct {
	Project *projects.Project `json:"project"`
	Stats   Stats             `json:"stats"`
	Locales int               `json:"locales"`
}

// ProjectDashboard backs the project landing page. TagsCount is nil when
// tags are disabled for the project.
type ProjectDashboard struct {
	Project   *projects.Project `json:"project"`
	Chart     Stats             `json:"chart"`
	Count     int               `json:"count"`
	TagsCount *int              `json:"tags_count"`
	Teams     []string          `json:"teams,omitempty"`
}

// LocaleStats pairs a project locale with its progress.
type LocaleStats struct {
	Locale *projects.Locale `json:"locale"`
	Stats  Stats            `json:"stats"`
}

// TeamsView backs the teams tab.
type TeamsView struct {
	Project *projects.Project `json:"project"`
	Locales []LocaleStats     `json:"locales"`
}

// TagsView backs the tags tab.
type TagsView struct {
	Project *projects.Project `json:"project"`
	Tags    []*projects.Tag   `json:"tags"`
}

// Contributor aggregates one user's translations in a project.
type Contributor struct {
	User       *users.User `json:"user"`
	Total      int         `json:"total"`
	Approved   int         `json:"approved"`
	Unreviewed int         `json:"unreviewed"`
	Rejected   int         `json:"rejected"`
}

// ContributorsView backs the contributors tab.
type ContributorsView struct {
	Project      *projects.Project `json:"project"`
	Contributors []Contributor     `json:"contributors"`
}

// MonthActivity counts events within one calendar month.
type MonthActivity struct {
	Month        string `json:"month"`
	Translations int    `json:"translations"`
	Approved     int    `json:"approved"`
	Rejected     int    `json:"rejected"`
	Contributors int    `json:"contributors"`
}

// InsightsView backs the insights tab.
type InsightsView struct {
	Project               string          `json:"project"`
	Months                []MonthActivity `json:"months"`
	Completion            float64         `json:"completion"`
	UnreviewedSuggestions int             `json:"unreviewed_suggestions"`
	GeneratedAt           time.Time       `json:"generated_at"`
}

// InfoView backs the info tab.
type InfoView struct {
	Project *projects.Project `json:"project"`
	HTML    template.HTML     `json:"html"`
}
