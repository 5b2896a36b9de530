package conflict

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

const (
	// DefaultWeeklyThreshold is the weekly load index above which a party is
	// considered overloaded.
	DefaultWeeklyThreshold = 15
	// DefaultConcurrency bounds the number of parties analysed in parallel.
	DefaultConcurrency = 8

	weightPeremptory = 3
	weightOrdinary   = 1
	weightHearing    = 2

	// DefaultLocation names the zone whole-day hearings and "today" are
	// reckoned in.
	DefaultLocation = "America/Sao_Paulo"
)

// SnapshotProvider supplies calendar snapshots for classification. It is
// optional; without it adjacency uses weekdays only and recess collisions
// are not detected.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, court calendar.Court, from, to common.Date) (*calendar.Snapshot, error)
}

// Detector finds conflicts. It is safe for concurrent use.
type Detector struct {
	threshold   int
	concurrency int
	today       func() common.Date
	location    *time.Location
	snapshots   SnapshotProvider
	logger      logging.Logger
}

// Option configures a Detector.
type Option func(*Detector)

func WithWeeklyThreshold(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.threshold = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithClock sets the source of "today" used by the impossible-date check.
func WithClock(today func() common.Date) Option {
	return func(d *Detector) { d.today = today }
}

// WithLocation sets the zone whole-day hearings occupy. Timed hearings keep
// their own offsets.
func WithLocation(loc *time.Location) Option {
	return func(d *Detector) {
		if loc != nil {
			d.location = loc
		}
	}
}

func WithSnapshots(p SnapshotProvider) Option {
	return func(d *Detector) { d.snapshots = p }
}

func WithLogger(l logging.Logger) Option {
	return func(d *Detector) { d.logger = l }
}

// NewDetector returns a detector with defaults applied.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		threshold:   DefaultWeeklyThreshold,
		concurrency: DefaultConcurrency,
		location:    defaultLocation(),
		logger:      logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.today == nil {
		loc := d.location
		d.today = func() common.Date { return common.Today(loc) }
	}
	return d
}

// defaultLocation loads DefaultLocation, falling back to its fixed offset
// when the zone database is unavailable.
func defaultLocation() *time.Location {
	if loc, err := time.LoadLocation(DefaultLocation); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*60*60)
}

// Threshold returns the weekly overload threshold.
func (d *Detector) Threshold() int { return d.threshold }

// Detect analyses deadlines party by party and returns every finding in a
// deterministic order.
func (d *Detector) Detect(ctx context.Context, deadlines []Deadline) ([]Finding, error) {
	if err := validateInput(deadlines); err != nil {
		return nil, err
	}
	if len(deadlines) == 0 {
		return []Finding{}, nil
	}

	byID := make(map[string]Deadline, len(deadlines))
	byParty := make(map[string][]Deadline)
	for _, dl := range deadlines {
		byID[dl.ID] = dl
		byParty[dl.Party] = append(byParty[dl.Party], dl)
	}
	parties := make([]string, 0, len(byParty))
	for p := range byParty {
		parties = append(parties, p)
	}
	sort.Strings(parties)

	snaps := d.loadSnapshots(ctx, deadlines)
	today := d.today()

	results := make([][]Finding, len(parties))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, party := range parties {
		i, party := i, party
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a := &analysis{
				party:     party,
				deadlines: sortByDue(byParty[party]),
				byID:      byID,
				snaps:     snaps,
				threshold: d.threshold,
				today:     today,
				location:  d.location,
			}
			results[i] = a.run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConflictAborted, "conflict detection aborted")
	}

	out := make([]Finding, 0)
	for _, fs := range results {
		out = append(out, fs...)
	}
	SortFindings(out)
	d.logger.Debug("conflict detection finished",
		logging.Int("deadlines", len(deadlines)),
		logging.Int("parties", len(parties)),
		logging.Int("findings", len(out)))
	return out, nil
}

func validateInput(deadlines []Deadline) error {
	seen := make(map[string]struct{}, len(deadlines))
	for i, dl := range deadlines {
		switch {
		case strings.TrimSpace(dl.ID) == "":
			return errors.New(errors.ErrCodeConflictInput, "deadline id is required").WithDetail(fmt.Sprintf("index %d", i))
		case strings.TrimSpace(dl.Party) == "":
			return errors.New(errors.ErrCodeConflictInput, "deadline party is required").WithDetail(dl.ID)
		case dl.DueDate.IsZero():
			return errors.New(errors.ErrCodeConflictInput, "deadline due date is required").WithDetail(dl.ID)
		}
		if _, dup := seen[dl.ID]; dup {
			return errors.New(errors.ErrCodeConflictInput, "duplicate deadline id").WithDetail(dl.ID)
		}
		seen[dl.ID] = struct{}{}
	}
	return nil
}

// loadSnapshots fetches one snapshot per distinct court. Failures degrade to
// weekday-only analysis for that court.
func (d *Detector) loadSnapshots(ctx context.Context, deadlines []Deadline) map[string]*calendar.Snapshot {
	snaps := make(map[string]*calendar.Snapshot)
	if d.snapshots == nil {
		return snaps
	}
	type window struct {
		court    calendar.Court
		from, to common.Date
	}
	windows := make(map[string]*window)
	for _, dl := range deadlines {
		key := calendar.NormalizeCode(dl.Court.Code)
		if key == "" {
			continue
		}
		w, ok := windows[key]
		if !ok {
			windows[key] = &window{court: dl.Court, from: dl.DueDate, to: dl.DueDate}
			continue
		}
		if dl.DueDate.Before(w.from) {
			w.from = dl.DueDate
		}
		if dl.DueDate.After(w.to) {
			w.to = dl.DueDate
		}
	}
	for key, w := range windows {
		// Adjacency looks past the last due date; leave room for long recesses.
		snap, err := d.snapshots.Snapshot(ctx, w.court, w.from, w.to.AddDays(45))
		if err != nil {
			d.logger.Warn("calendar unavailable for conflict detection",
				logging.String("court", key), logging.Err(err))
			continue
		}
		snaps[key] = snap
	}
	return snaps
}

func sortByDue(in []Deadline) []Deadline {
	out := append([]Deadline(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Per-party analysis
// ─────────────────────────────────────────────────────────────────────────────

type analysis struct {
	party     string
	deadlines []Deadline
	byID      map[string]Deadline
	snaps     map[string]*calendar.Snapshot
	threshold int
	today     common.Date
	location  *time.Location
	findings  []Finding
}

func (a *analysis) run() []Finding {
	a.directClashes()
	a.weeklyOverload()
	a.recessCollisions()
	a.duplicateHearings()
	a.impossibleDates()
	a.unresolvedDependencies()
	return a.findings
}

func (a *analysis) add(f Finding) {
	f.Party = a.party
	a.findings = append(a.findings, f)
}

func (a *analysis) snapshotFor(dl Deadline) *calendar.Snapshot {
	return a.snaps[calendar.NormalizeCode(dl.Court.Code)]
}

// nextBusinessDay returns the first working day after d for the deadline's
// court, or the next weekday when no calendar is known.
func (a *analysis) nextBusinessDay(dl Deadline, d common.Date) common.Date {
	snap := a.snapshotFor(dl)
	next := d.AddDays(1)
	for i := 0; i < 60; i++ {
		if snap != nil && snap.Covers(next) {
			if snap.Classify(next).IsWorking() {
				return next
			}
		} else if !next.IsWeekend() {
			return next
		}
		next = next.AddDays(1)
	}
	return next
}

func (a *analysis) directClashes() {
	var peremptory []Deadline
	for _, dl := range a.deadlines {
		if dl.Pending() && dl.Peremptory() {
			peremptory = append(peremptory, dl)
		}
	}
	for i := 0; i < len(peremptory); i++ {
		first := peremptory[i]
		adjacent := a.nextBusinessDay(first, first.DueDate)
		for j := i + 1; j < len(peremptory); j++ {
			second := peremptory[j]
			if second.DueDate.After(adjacent) {
				break
			}
			ids := []string{first.ID, second.ID}
			if second.DueDate.Equal(first.DueDate) {
				a.add(Finding{
					ID:          findingID(KindChoqueDireto, ids, ""),
					Kind:        KindChoqueDireto,
					Severity:    SeverityAlta,
					Description: fmt.Sprintf("dois prazos peremptórios vencem em %s", first.DueDate),
					DeadlineIDs: ids,
					Suggestion:  "antecipar o cumprimento de um dos prazos ou redistribuir entre a equipe",
					Date:        first.DueDate,
				})
				continue
			}
			if second.DueDate.Equal(adjacent) {
				a.add(Finding{
					ID:          findingID(KindChoqueDireto, ids, ""),
					Kind:        KindChoqueDireto,
					Severity:    SeverityMedia,
					Description: fmt.Sprintf("prazos peremptórios em dias úteis consecutivos (%s e %s)", first.DueDate, second.DueDate),
					DeadlineIDs: ids,
					Suggestion:  "planejar a entrega do primeiro prazo com antecedência",
					Date:        first.DueDate,
				})
			}
		}
	}
}

func (a *analysis) weeklyOverload() {
	type load struct {
		score int
		ids   []string
		first common.Date
	}
	weeks := make(map[string]*load)
	for _, dl := range a.deadlines {
		if !dl.Pending() {
			continue
		}
		w := isoWeek(dl.DueDate)
		l, ok := weeks[w]
		if !ok {
			l = &load{first: dl.DueDate}
			weeks[w] = l
		}
		switch {
		case dl.Hearing:
			l.score += weightHearing
		case dl.Peremptory():
			l.score += weightPeremptory
		default:
			l.score += weightOrdinary
		}
		l.ids = append(l.ids, dl.ID)
	}

	keys := make([]string, 0, len(weeks))
	for w := range weeks {
		keys = append(keys, w)
	}
	sort.Strings(keys)
	for _, w := range keys {
		l := weeks[w]
		if l.score <= a.threshold {
			continue
		}
		sev := SeverityMedia
		if l.score > 2*a.threshold {
			sev = SeverityAlta
		}
		a.add(Finding{
			ID:          findingID(KindSobrecargaSemanal, l.ids, a.party+"|"+w),
			Kind:        KindSobrecargaSemanal,
			Severity:    sev,
			Description: fmt.Sprintf("carga semanal %d acima do limite %d na semana %s", l.score, a.threshold, w),
			DeadlineIDs: l.ids,
			Suggestion:  "redistribuir prazos entre responsáveis ou antecipar entregas da semana",
			Date:        l.first,
			Week:        w,
		})
	}
}

func (a *analysis) recessCollisions() {
	for _, dl := range a.deadlines {
		if !dl.Pending() {
			continue
		}
		snap := a.snapshotFor(dl)
		if snap == nil || !snap.Covers(dl.DueDate) {
			continue
		}
		if snap.Classify(dl.DueDate) != calendar.DayRecesso {
			continue
		}
		ids := []string{dl.ID}
		a.add(Finding{
			ID:          findingID(KindColisaoRecesso, ids, ""),
			Kind:        KindColisaoRecesso,
			Severity:    SeverityCritica,
			Description: fmt.Sprintf("vencimento em %s cai no recesso forense de %s", dl.DueDate, dl.Court.Code),
			DeadlineIDs: ids,
			Suggestion:  "recalcular o prazo considerando a suspensão do recesso",
			Date:        dl.DueDate,
		})
	}
}

func (a *analysis) duplicateHearings() {
	var hearings []Deadline
	for _, dl := range a.deadlines {
		if dl.Pending() && dl.Hearing {
			hearings = append(hearings, dl)
		}
	}
	for i := 0; i < len(hearings); i++ {
		s1, e1 := hearings[i].slot(a.location)
		for j := i + 1; j < len(hearings); j++ {
			s2, e2 := hearings[j].slot(a.location)
			if !(s1.Before(e2) && s2.Before(e1)) {
				continue
			}
			ids := []string{hearings[i].ID, hearings[j].ID}
			a.add(Finding{
				ID:          findingID(KindAudienciaDuplicada, ids, ""),
				Kind:        KindAudienciaDuplicada,
				Severity:    SeverityCritica,
				Description: fmt.Sprintf("audiências sobrepostas em %s", hearings[i].DueDate),
				DeadlineIDs: ids,
				Suggestion:  "pedir redesignação de uma das audiências ou substabelecer",
				Date:        hearings[i].DueDate,
			})
		}
	}
}

func (a *analysis) impossibleDates() {
	for _, dl := range a.deadlines {
		if !dl.Pending() || !dl.DueDate.Before(a.today) {
			continue
		}
		ids := []string{dl.ID}
		a.add(Finding{
			ID:          findingID(KindDataImpossivel, ids, ""),
			Kind:        KindDataImpossivel,
			Severity:    SeverityCritica,
			Description: fmt.Sprintf("prazo pendente com vencimento passado (%s)", dl.DueDate),
			DeadlineIDs: ids,
			Suggestion:  "verificar o cumprimento ou a data informada",
			Date:        dl.DueDate,
		})
	}
}

func (a *analysis) unresolvedDependencies() {
	for _, dl := range a.deadlines {
		if !dl.Pending() {
			continue
		}
		for _, depID := range dl.DependsOn {
			dep, ok := a.byID[depID]
			switch {
			case !ok:
				ids := []string{dl.ID}
				a.add(Finding{
					ID:          findingID(KindDependenciaNaoResolvida, ids, depID),
					Kind:        KindDependenciaNaoResolvida,
					Severity:    SeverityMedia,
					Description: fmt.Sprintf("dependência %s não encontrada", depID),
					DeadlineIDs: ids,
					Suggestion:  "cadastrar o prazo do qual este depende",
					Date:        dl.DueDate,
				})
			case dep.Pending() && dep.DueDate.After(dl.DueDate):
				ids := []string{dl.ID, dep.ID}
				a.add(Finding{
					ID:          findingID(KindDependenciaNaoResolvida, ids, depID),
					Kind:        KindDependenciaNaoResolvida,
					Severity:    SeverityAlta,
					Description: fmt.Sprintf("prazo depende de %s, que vence depois (%s)", dep.ID, dep.DueDate),
					DeadlineIDs: ids,
					Suggestion:  "rever a ordem dos atos ou antecipar o prazo dependente",
					Date:        dl.DueDate,
				})
			}
		}
	}
}

//Personal.AI order the ending
