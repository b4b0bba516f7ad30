package robotick

import "strings"

// bindingKind distinguishes a push ("->") from a pull ("<-") binding.
type bindingKind uint8

const (
	bindingPush bindingKind = iota
	bindingPull
)

// parsedBinding is one grammatically valid binding string, per spec.md §6:
//
//	binding := field (" -> " | " <- ") peer "." field
//
// Whitespace around the arrow is tolerated; strings that don't match this
// shape are reported as ok=false so the caller can silently skip them
// (spec.md §4.5 — permissive parse).
type parsedBinding struct {
	kind       bindingKind
	localField string
	peerName   string
	peerField  string
}

func parseBindingString(raw string) (parsedBinding, bool) {
	var kind bindingKind
	var left, right string

	switch {
	case strings.Contains(raw, "->"):
		kind = bindingPush
		idx := strings.Index(raw, "->")
		left, right = raw[:idx], raw[idx+2:]
	case strings.Contains(raw, "<-"):
		kind = bindingPull
		idx := strings.Index(raw, "<-")
		left, right = raw[:idx], raw[idx+2:]
	default:
		return parsedBinding{}, false
	}

	localField := strings.TrimSpace(left)
	rest := strings.TrimSpace(right)
	if localField == "" || rest == "" {
		return parsedBinding{}, false
	}

	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return parsedBinding{}, false
	}
	peerName := strings.TrimSpace(rest[:dot])
	peerField := strings.TrimSpace(rest[dot+1:])
	if peerName == "" || peerField == "" {
		return parsedBinding{}, false
	}

	return parsedBinding{
		kind:       kind,
		localField: localField,
		peerName:   peerName,
		peerField:  peerField,
	}, true
}

// pushTarget is one resolved destination of an outgoing ("->") binding.
type pushTarget struct {
	peer  Workload
	field string
}

// pullSource is the resolved origin of an incoming ("<-") binding. Only one
// is kept per local field — duplicate pulls are last-wins (spec.md §4.5).
type pullSource struct {
	peer  Workload
	field string
}

// bindingTable holds one workload's resolved push/pull bindings.
type bindingTable struct {
	outgoing map[string][]pushTarget
	incoming map[string]pullSource
}

func newBindingTable() *bindingTable {
	return &bindingTable{
		outgoing: make(map[string][]pushTarget),
		incoming: make(map[string]pullSource),
	}
}

// parseBindings resolves each raw binding string against reg and records it
// in t. An unresolved peer name is fatal (ErrUnknownPeer), matching spec.md
// §4.5 — this runs during Composer.setup, one workload at a time, so a
// cyclic pair of push bindings resolves without deadlock (nothing here
// calls into the peer; it only records a pointer to it). Acyclicity of the
// resulting push graph is the caller's responsibility at config time
// (spec.md §4.5 / §9 — push-binding cycles are disallowed by construction,
// not detected here).
func (t *bindingTable) parseBindings(bindings []string, reg *Registry) error {
	for _, raw := range bindings {
		parsed, ok := parseBindingString(raw)
		if !ok {
			continue
		}
		peer, found := reg.FindByName(parsed.peerName)
		if !found {
			return ErrUnknownPeer
		}
		switch parsed.kind {
		case bindingPush:
			t.outgoing[parsed.localField] = append(t.outgoing[parsed.localField], pushTarget{peer: peer, field: parsed.peerField})
		case bindingPull:
			t.incoming[parsed.localField] = pullSource{peer: peer, field: parsed.peerField}
		}
	}
	return nil
}
