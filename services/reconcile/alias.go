package reconcile

import (
	"strings"

	"churchledger-backend/lib/textutil"
)

// AliasConfidence is the confidence given to a match confirmed by a
// previously learned alias.
const AliasConfidence = 0.98

// AliasMap maps a normalized noisy name to the id of the member a person
// confirmed it refers to.
type AliasMap map[string]string

// NormalizeAlias produces the key form used by AliasMap.
func NormalizeAlias(name string) string {
	return textutil.NormalizeName(name)
}

// Lookup resolves name through the alias map. The member id may no longer
// exist in the roster, callers must check.
func (a AliasMap) Lookup(name string) (string, bool) {
	if len(a) == 0 {
		return "", false
	}
	id, ok := a[NormalizeAlias(name)]
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}
