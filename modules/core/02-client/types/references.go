package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ReferenceLookup returns the clients read by clientID and whether clientID exists.
type ReferenceLookup func(clientID string) (references []string, found bool)

// ValidateReferences checks that registering clientID with the provided references keeps the
// client reference graph acyclic. Every referenced client must already exist and no referenced
// client may reach clientID, directly or transitively.
func ValidateReferences(clientID string, references []string, lookup ReferenceLookup) error {
	seen := make(map[string]bool, len(references))
	for _, ref := range references {
		if ref == clientID {
			return errorsmod.Wrapf(ErrClientReferenceCycle, "client %s references itself", clientID)
		}
		if seen[ref] {
			return errorsmod.Wrapf(ErrInvalidClientReference, "duplicate reference to client %s", ref)
		}
		seen[ref] = true

		if _, found := lookup(ref); !found {
			return errorsmod.Wrapf(ErrUnknownClientReference, "client %s references unknown client %s", clientID, ref)
		}
	}

	// depth first walk from every referenced client, each node is expanded once
	visited := make(map[string]bool)
	stack := append([]string(nil), references...)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == clientID {
			return errorsmod.Wrapf(ErrClientReferenceCycle, "client %s is reachable from its own references", clientID)
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		next, found := lookup(current)
		if !found {
			return errorsmod.Wrapf(ErrUnknownClientReference, "client %s references unknown client", current)
		}
		stack = append(stack, next...)
	}

	return nil
}
