package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/internal/projects"
	"github.com/goliatone/go-l10n/internal/translations"
	"github.com/goliatone/go-l10n/internal/users"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const insightsMonths = 12

var (
	ErrTagsDisabled     = errors.New("dashboard: tags are disabled for this project")
	ErrInsightsDisabled = errors.New("dashboard: insights feature disabled")
)

// Service assembles the read-only project views.
type Service interface {
	Projects(ctx context.Context, user *users.User) ([]ProjectSummary, error)
	Project(ctx context.Context, slug string, user *users.User, teams []string) (*ProjectDashboard, error)
	Teams(ctx context.Context, slug string, user *users.User, teams []string) (*TeamsView, error)
	Tags(ctx context.Context, slug string, user *users.User) (*TagsView, error)
	Contributors(ctx context.Context, slug string, user *users.User) (*ContributorsView, error)
	Insights(ctx context.Context, slug string, user *users.User) (*InsightsView, error)
	Info(ctx context.Context, slug string, user *users.User) (*InfoView, error)
}

// ProjectDirectory is the subset of projects.Service used by the views.
type ProjectDirectory interface {
	GetVisible(ctx context.Context, slug string, user *users.User) (*projects.Project, error)
	ListVisible(ctx context.Context, user *users.User) ([]*projects.Project, error)
	Locales(ctx context.Context, projectID uuid.UUID) ([]*projects.Locale, error)
	GetLocale(ctx context.Context, code string) (*projects.Locale, error)
	Tags(ctx context.Context, projectID uuid.UUID) ([]*projects.Tag, error)
}

// TranslationSource lists the data stats are computed from.
type TranslationSource interface {
	Entities(ctx context.Context, projectID uuid.UUID) ([]*translations.Entity, error)
	ProjectTranslations(ctx context.Context, projectID uuid.UUID) ([]*translations.Translation, error)
}

// UserDirectory resolves contributor accounts.
type UserDirectory interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*users.User, error)
}

// InfoRenderer converts project info markdown to HTML.
type InfoRenderer interface {
	Render(source string) (template.HTML, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used for insights.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithCache stores computed insights in provider for ttl.
func WithCache(provider interfaces.CacheProvider, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = provider
		s.cacheTTL = ttl
	}
}

// WithInsights toggles the insights tab.
func WithInsights(enabled bool) ServiceOption {
	return func(s *service) {
		s.insights = enabled
	}
}

// WithLogger sets the logger used for view events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInfoRenderer sets the markdown renderer for the info tab.
func WithInfoRenderer(renderer InfoRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

type service struct {
	projects     ProjectDirectory
	translations TranslationSource
	users        UserDirectory
	renderer     InfoRenderer
	cache        interfaces.CacheProvider
	cacheTTL     time.Duration
	insights     bool
	now          func() time.Time
	logger       interfaces.Logger
}

func NewService(projectDir ProjectDirectory, source TranslationSource, userDir UserDirectory, opts ...ServiceOption) Service {
	s := &service{
		projects:     projectDir,
		translations: source,
		users:        userDir,
		insights:     true,
		now:          time.Now,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Projects(ctx context.Context, user *users.User) ([]ProjectSummary, error) {
	visible, err := s.projects.ListVisible(ctx, user)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Name < visible[j].Name })

	out := make([]ProjectSummary, 0, len(visible))
	for _, project := range visible {
		locales, err := s.projects.Locales(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		perLocale, err := s.localeStats(ctx, project.ID, locales)
		if err != nil {
			return nil, err
		}
		out = append(out, ProjectSummary{Project: project, Stats: sum(perLocale), Locales: len(locales)})
	}
	return out, nil
}

func (s *service) Project(ctx context.Context, slug string, user *users.User, teams []string) (*ProjectDashboard, error) {
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	locales, filtered, err := s.filteredLocales(ctx, project.ID, teams)
	if err != nil {
		return nil, err
	}
	perLocale, err := s.localeStats(ctx, project.ID, locales)
	if err != nil {
		return nil, err
	}
	view := &ProjectDashboard{
		Project: project,
		Chart:   sum(perLocale),
		Count:   len(locales),
	}
	if filtered {
		view.Teams = localeCodes(locales)
	}
	if project.TagsEnabled {
		tags, err := s.projects.Tags(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		count := 0
		for _, tag := range tags {
			if tag.ResourceCount > 0 {
				count++
			}
		}
		view.TagsCount = &count
	}
	return view, nil
}

func (s *service) Teams(ctx context.Context, slug string, user *users.User, teams []string) (*TeamsView, error) {
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	locales, _, err := s.filteredLocales(ctx, project.ID, teams)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(locales, func(i, j int) bool { return locales[i].Name < locales[j].Name })
	perLocale, err := s.localeStats(ctx, project.ID, locales)
	if err != nil {
		return nil, err
	}
	view := &TeamsView{Project: project, Locales: make([]LocaleStats, 0, len(locales))}
	for _, locale := range locales {
		view.Locales = append(view.Locales, LocaleStats{Locale: locale, Stats: perLocale[locale.ID]})
	}
	return view, nil
}

func (s *service) Tags(ctx context.Context, slug string, user *users.User) (*TagsView, error) {
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	if !project.TagsEnabled {
		return nil, ErrTagsDisabled
	}
	tags, err := s.projects.Tags(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	return &TagsView{Project: project, Tags: tags}, nil
}

func (s *service) Contributors(ctx context.Context, slug string, user *users.User) (*ContributorsView, error) {
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	all, err := s.translations.ProjectTranslations(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	totals := map[uuid.UUID]*Contributor{}
	var ids []uuid.UUID
	for _, tr := range all {
		if tr.UserID == nil {
			continue
		}
		entry, ok := totals[*tr.UserID]
		if !ok {
			entry = &Contributor{}
			totals[*tr.UserID] = entry
			ids = append(ids, *tr.UserID)
		}
		entry.Total++
		switch {
		case tr.Approved:
			entry.Approved++
		case tr.Rejected:
			entry.Rejected++
		default:
			entry.Unreviewed++
		}
	}

	accounts, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	view := &ContributorsView{Project: project, Contributors: make([]Contributor, 0, len(accounts))}
	for _, account := range accounts {
		entry := totals[account.ID]
		if entry == nil {
			continue
		}
		entry.User = account
		view.Contributors = append(view.Contributors, *entry)
	}
	sort.SliceStable(view.Contributors, func(i, j int) bool {
		left, right := view.Contributors[i], view.Contributors[j]
		if left.Total != right.Total {
			return left.Total > right.Total
		}
		return left.User.DisplayName() < right.User.DisplayName()
	})
	return view, nil
}

// InsightsCacheKey is the cache key for a project's insights.
func InsightsCacheKey(slug string) string {
	return fmt.Sprintf("/projects/%s/insights", slug)
}

func (s *service) Insights(ctx context.Context, slug string, user *users.User) (*InsightsView, error) {
	if !s.insights {
		return nil, ErrInsightsDisabled
	}
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	logger := logging.WithProjectContext(s.logger, project.Slug, "", "")
	key := InsightsCacheKey(project.Slug)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("dashboard.insights.cache_read_failed", "error", err)
		} else if view, ok := cached.(*InsightsView); ok && view != nil {
			logger.Debug("dashboard.insights.cache_hit")
			return view, nil
		}
	}

	view, err := s.computeInsights(ctx, project)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view, s.cacheTTL); err != nil {
			logger.Warn("dashboard.insights.cache_write_failed", "error", err)
		}
	}
	logger.Info("dashboard.insights.computed", "months", len(view.Months))
	return view, nil
}

func (s *service) computeInsights(ctx context.Context, project *projects.Project) (*InsightsView, error) {
	locales, err := s.projects.Locales(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	entities, err := s.translations.Entities(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	all, err := s.translations.ProjectTranslations(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	chart := sum(computeStats(entities, all, localeIDs(locales)))

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(insightsMonths - 1), 0)
	months := make([]MonthActivity, insightsMonths)
	contributors := make([]map[uuid.UUID]struct{}, insightsMonths)
	for i := range months {
		months[i].Month = start.AddDate(0, i, 0).Format("2006-01")
		contributors[i] = map[uuid.UUID]struct{}{}
	}
	bucket := func(ts time.Time) int {
		ts = ts.UTC()
		idx := (ts.Year()-start.Year())*12 + int(ts.Month()) - int(start.Month())
		if idx < 0 || idx >= insightsMonths {
			return -1
		}
		return idx
	}

	unreviewed := 0
	for _, tr := range all {
		if idx := bucket(tr.Date); idx >= 0 {
			months[idx].Translations++
			if tr.UserID != nil {
				contributors[idx][*tr.UserID] = struct{}{}
			}
		}
		if tr.ApprovedDate != nil {
			if idx := bucket(*tr.ApprovedDate); idx >= 0 {
				months[idx].Approved++
			}
		}
		if tr.RejectedDate != nil {
			if idx := bucket(*tr.RejectedDate); idx >= 0 {
				months[idx].Rejected++
			}
		}
		if !tr.Active && !tr.Approved && !tr.Rejected {
			unreviewed++
		}
	}
	for i := range months {
		months[i].Contributors = len(contributors[i])
	}

	return &InsightsView{
		Project:               project.Slug,
		Months:                months,
		Completion:            chart.CompletionPercent(),
		UnreviewedSuggestions: unreviewed,
		GeneratedAt:           now,
	}, nil
}

func (s *service) Info(ctx context.Context, slug string, user *users.User) (*InfoView, error) {
	project, err := s.projects.GetVisible(ctx, slug, user)
	if err != nil {
		return nil, err
	}
	view := &InfoView{Project: project}
	if s.renderer == nil {
		view.HTML = template.HTML(template.HTMLEscapeString(project.Info))
		return view, nil
	}
	html, err := s.renderer.Render(project.Info)
	if err != nil {
		return nil, err
	}
	view.HTML = html
	return view, nil
}

func (s *service) localeStats(ctx context.Context, projectID uuid.UUID, locales []*projects.Locale) (map[uuid.UUID]Stats, error) {
	entities, err := s.translations.Entities(ctx, projectID)
	if err != nil {
		return nil, err
	}
	all, err := s.translations.ProjectTranslations(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return computeStats(entities, all, localeIDs(locales)), nil
}

// filteredLocales applies the teams filter. Codes that match no known locale
// are ignored, and a filter with no known codes lists every project locale.
func (s *service) filteredLocales(ctx context.Context, projectID uuid.UUID, teams []string) ([]*projects.Locale, bool, error) {
	locales, err := s.projects.Locales(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	known := map[uuid.UUID]struct{}{}
	for _, code := range teams {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		locale, err := s.projects.GetLocale(ctx, code)
		if err != nil {
			if projects.IsNotFound(err) {
				continue
			}
			return nil, false, err
		}
		known[locale.ID] = struct{}{}
	}
	if len(known) == 0 {
		return locales, false, nil
	}
	out := make([]*projects.Locale, 0, len(locales))
	for _, locale := range locales {
		if _, ok := known[locale.ID]; ok {
			out = append(out, locale)
		}
	}
	return out, true, nil
}

// ParseTeams splits a comma separated teams query value.
func ParseTeams(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, code := range strings.Split(raw, ",") {
		if code = strings.TrimSpace(code); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func sum(perLocale map[uuid.UUID]Stats) Stats {
	var total Stats
	for _, stats := range perLocale {
		total.Add(stats)
	}
	return total
}

func localeIDs(locales []*projects.Locale) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(locales))
	for _, locale := range locales {
		ids = append(ids, locale.ID)
	}
	return ids
}

func localeCodes(locales []*projects.Locale) []string {
	codes := make([]string, 0, len(locales))
	for _, locale := range locales {
		codes = append(codes, locale.Code)
	}
	return codes
}
