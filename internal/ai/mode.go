package ai

// Provider identifies a paid AI backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// SourceHeuristic is the source label the backing service reports when the
// free, locally-computable path served the result instead of a provider.
const SourceHeuristic = "heuristic"

// IsValid reports whether p names a known provider.
func (p Provider) IsValid() bool {
	return p == ProviderGemini || p == ProviderOpenAI
}

type modeKind int

const (
	modeHeuristic modeKind = iota
	modeProvider
	modeAutomatic
)

// Mode is the resolved request strategy for one user action. It is an
// immutable value computed once per action and passed into the orchestrator,
// never read from ambient state while a request is in flight.
type Mode struct {
	kind     modeKind
	provider Provider
}

// HeuristicOnly requests the free path and nothing else.
func HeuristicOnly() Mode {
	return Mode{kind: modeHeuristic}
}

// WithProvider requests exactly one named provider, degraded or not.
func WithProvider(p Provider) Mode {
	return Mode{kind: modeProvider, provider: p}
}

// Automatic tries the preferred provider first and falls back to the
// alternate only when the first result was degraded.
func Automatic() Mode {
	return Mode{kind: modeAutomatic}
}

// ResolveMode maps the UI toggles to a mode value. A free-only toggle wins;
// a named valid provider is explicit; anything else is automatic.
func ResolveMode(freeOnly bool, provider string) Mode {
	if freeOnly {
		return HeuristicOnly()
	}
	if p := Provider(provider); p.IsValid() {
		return WithProvider(p)
	}
	return Automatic()
}

// IsAutomatic reports whether the fallback chain applies.
func (m Mode) IsAutomatic() bool { return m.kind == modeAutomatic }

// FreeOnly reports whether only the heuristic path may run.
func (m Mode) FreeOnly() bool { return m.kind == modeHeuristic }

// Explicit returns the named provider, if one was requested.
func (m Mode) Explicit() (Provider, bool) {
	if m.kind == modeProvider {
		return m.provider, true
	}
	return "", false
}

// String returns a log-friendly rendering of the mode.
func (m Mode) String() string {
	switch m.kind {
	case modeHeuristic:
		return "free"
	case modeProvider:
		return string(m.provider)
	default:
		return "auto"
	}
}
