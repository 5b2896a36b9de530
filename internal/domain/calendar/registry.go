package calendar

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CourtRegistry resolves court codes to Court records.
type CourtRegistry interface {
	// Lookup returns the court for code (case and separator insensitive).
	Lookup(code string) (Court, bool)
	// Register adds or replaces a court.
	Register(c Court)
	// List returns every registered court sorted by code.
	List() []Court
}

// InMemoryCourtRegistry is the default registry, pre-populated with the
// Brazilian superior, state, federal and labour courts.
type InMemoryCourtRegistry struct {
	mu      sync.RWMutex
	courts  map[string]Court
	aliases map[string]string
}

// NewCourtRegistry returns a registry seeded with the built-in court list.
func NewCourtRegistry() *InMemoryCourtRegistry {
	r := &InMemoryCourtRegistry{
		courts:  make(map[string]Court),
		aliases: make(map[string]string),
	}
	r.seed()
	return r
}

func (r *InMemoryCourtRegistry) seed() {
	for _, c := range []Court{
		{Code: "STF", Tier: TierSuperior, Name: "Supremo Tribunal Federal"},
		{Code: "STJ", Tier: TierSuperior, Name: "Superior Tribunal de Justiça"},
		{Code: "TST", Tier: TierSuperior, Name: "Tribunal Superior do Trabalho"},
		{Code: "TSE", Tier: TierEleitoral, Name: "Tribunal Superior Eleitoral"},
		{Code: "STM", Tier: TierMilitar, Name: "Superior Tribunal Militar"},
	} {
		r.Register(c)
	}

	for _, uf := range []string{
		"AC", "AL", "AM", "AP", "BA", "CE", "ES", "GO", "MA", "MG", "MS", "MT", "PA", "PB",
		"PE", "PI", "PR", "RJ", "RN", "RO", "RR", "RS", "SC", "SE", "SP", "TO",
	} {
		r.Register(Court{Code: "TJ" + uf, UF: uf, Tier: TierEstadual, Name: "Tribunal de Justiça " + uf})
	}
	r.Register(Court{Code: "TJDFT", UF: "DF", Tier: TierEstadual, Name: "Tribunal de Justiça do Distrito Federal e Territórios"})
	r.addAlias("TJDF", "TJDFT")

	// Regional federal courts span several states; only national and
	// court-scoped entries apply.
	for i := 1; i <= 6; i++ {
		code := "TRF" + strconv.Itoa(i)
		r.Register(Court{Code: code, Tier: TierFederal, Name: "Tribunal Regional Federal da " + strconv.Itoa(i) + "ª Região"})
	}

	trtSeat := map[int]string{
		1: "RJ", 2: "SP", 3: "MG", 4: "RS", 5: "BA", 6: "PE", 7: "CE", 9: "PR",
		12: "SC", 13: "PB", 15: "SP", 16: "MA", 17: "ES", 18: "GO", 19: "AL",
		20: "SE", 21: "RN", 22: "PI", 23: "MT", 24: "MS",
	}
	for i := 1; i <= 24; i++ {
		code := "TRT" + strconv.Itoa(i)
		r.Register(Court{Code: code, UF: trtSeat[i], Tier: TierTrabalho, Name: "Tribunal Regional do Trabalho da " + strconv.Itoa(i) + "ª Região"})
	}
}

func (r *InMemoryCourtRegistry) addAlias(alias, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[NormalizeCode(alias)] = NormalizeCode(code)
}

// AddAlias maps an alternative spelling onto a registered code.
func (r *InMemoryCourtRegistry) AddAlias(alias, code string) {
	r.addAlias(alias, code)
}

// Register implements CourtRegistry. The code is normalized and the UF
// upper-cased before storing.
func (r *InMemoryCourtRegistry) Register(c Court) {
	c.Code = NormalizeCode(c.Code)
	c.UF = strings.ToUpper(strings.TrimSpace(c.UF))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courts[c.Code] = c
}

// Lookup implements CourtRegistry.
func (r *InMemoryCourtRegistry) Lookup(code string) (Court, bool) {
	key := NormalizeCode(code)
	if key == "" {
		return Court{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.courts[key]; ok {
		return c, true
	}
	if target, ok := r.aliases[key]; ok {
		c, ok := r.courts[target]
		return c, ok
	}
	return Court{}, false
}

// List implements CourtRegistry.
func (r *InMemoryCourtRegistry) List() []Court {
	r.mu.RLock()
	out := make([]Court, 0, len(r.courts))
	for _, c := range r.courts {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

//Personal.AI order the ending
