package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

const (
	DefaultPageSize   = 5
	DefaultFreeVoices = 3
)

// VoiceLister fetches the provider's voice list.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]model.VoiceOption, error)
}

// CatalogOptions control paging and the free tier size.
type CatalogOptions struct {
	PageSize   int
	FreeVoices int
}

func (o CatalogOptions) withDefaults() CatalogOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.FreeVoices < 0 {
		o.FreeVoices = 0
	}
	return o
}

// VoiceCatalog is the ordered voice list loaded at startup. It is never
// modified after construction and can be shared between goroutines.
type VoiceCatalog struct {
	voices    []model.VoiceOption
	index     map[string]int
	pageSize  int
	freeCount int
}

// NewVoiceCatalog builds a catalog over voices in their canonical order.
func NewVoiceCatalog(voices []model.VoiceOption, opts CatalogOptions) *VoiceCatalog {
	opts = opts.withDefaults()
	c := &VoiceCatalog{
		voices:    make([]model.VoiceOption, len(voices)),
		index:     make(map[string]int, len(voices)),
		pageSize:  opts.PageSize,
		freeCount: opts.FreeVoices,
	}
	copy(c.voices, voices)
	for i, v := range c.voices {
		if _, dup := c.index[v.ID]; !dup {
			c.index[v.ID] = i
		}
	}
	return c
}

// LoadVoiceCatalog fetches the catalog once. A failed fetch yields an empty
// catalog; voice features then answer with the loading notice.
func LoadVoiceCatalog(ctx context.Context, lister VoiceLister, opts CatalogOptions, log zerolog.Logger) *VoiceCatalog {
	voices, err := lister.ListVoices(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch voices")
		return NewVoiceCatalog(nil, opts)
	}
	log.Info().Int("voices", len(voices)).Msg("voice catalog loaded")
	return NewVoiceCatalog(voices, opts)
}

func (c *VoiceCatalog) Len() int { return len(c.voices) }

// Ready reports whether any voice is available.
func (c *VoiceCatalog) Ready() bool { return len(c.voices) > 0 }

func (c *VoiceCatalog) PageSize() int { return c.pageSize }

// TotalPages is ceil(len / pageSize).
func (c *VoiceCatalog) TotalPages() int {
	return (len(c.voices) + c.pageSize - 1) / c.pageSize
}

// Page returns the voices of the zero-based page, clamped to the catalog.
func (c *VoiceCatalog) Page(page int) []model.VoiceOption {
	if page < 0 {
		return nil
	}
	start := page * c.pageSize
	if start >= len(c.voices) {
		return nil
	}
	end := min(start+c.pageSize, len(c.voices))
	return c.voices[start:end]
}

// Lookup finds a voice by id.
func (c *VoiceCatalog) Lookup(id string) (model.VoiceOption, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.VoiceOption{}, false
	}
	return c.voices[i], true
}

// First returns the first catalog voice, the default for users who never chose one.
func (c *VoiceCatalog) First() (model.VoiceOption, bool) {
	if len(c.voices) == 0 {
		return model.VoiceOption{}, false
	}
	return c.voices[0], true
}

// IsFreeEligible reports whether the voice sits among the first free voices of
// the catalog. Voices outside the catalog are never free.
func (c *VoiceCatalog) IsFreeEligible(v model.VoiceOption) bool {
	i, ok := c.index[v.ID]
	return ok && i < c.freeCount
}

// ActionKind enumerates the buttons of the menus.
type ActionKind string

const (
	ActionLanguage ActionKind = "lang"
	ActionPage     ActionKind = "page"
	ActionSelect   ActionKind = "voice"
	ActionPreview  ActionKind = "preview"
	ActionNoop     ActionKind = "noop"
)

// Action is the typed payload of a menu button. Only identifiers travel with
// it; eligibility is looked up again when the button is pressed.
type Action struct {
	Kind    ActionKind
	VoiceID string
	Page    int
	Lang    string
}

// VoiceButtonRow is one voice line of the menu.
type VoiceButtonRow struct {
	Voice   model.VoiceOption
	Locked  bool
	Select  Action
	Preview Action
}

// NavButton is an entry of the navigation row.
type NavButton struct {
	Label  string
	Action Action
}

// VoiceMenu is the transport-independent layout of one menu page.
type VoiceMenu struct {
	Page       int
	TotalPages int
	Rows       []VoiceButtonRow
	Nav        []NavButton
}

// Menu lays out the given page. Premium-only voices are marked locked unless
// the viewer is premium. Out-of-range pages are clamped.
func (c *VoiceCatalog) Menu(page int, viewerPremium bool) VoiceMenu {
	total := c.TotalPages()
	if total == 0 {
		return VoiceMenu{}
	}
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}
	m := VoiceMenu{Page: page, TotalPages: total}
	for _, v := range c.Page(page) {
		m.Rows = append(m.Rows, VoiceButtonRow{
			Voice:   v,
			Locked:  !viewerPremium && !c.IsFreeEligible(v),
			Select:  Action{Kind: ActionSelect, VoiceID: v.ID},
			Preview: Action{Kind: ActionPreview, VoiceID: v.ID},
		})
	}
	if page > 0 {
		m.Nav = append(m.Nav, NavButton{Label: "⬅️", Action: Action{Kind: ActionPage, Page: page - 1}})
	}
	m.Nav = append(m.Nav, NavButton{Label: fmt.Sprintf("%d/%d", page+1, total), Action: Action{Kind: ActionNoop}})
	if page < total-1 {
		m.Nav = append(m.Nav, NavButton{Label: "➡️", Action: Action{Kind: ActionPage, Page: page + 1}})
	}
	return m
}
