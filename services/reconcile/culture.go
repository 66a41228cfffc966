package reconcile

// Normalizer is a naming-culture layer plugged into scoring. A nil
// Normalizer means generic matching.
type Normalizer interface {
	// StripTitles removes honorifics, returning the normalized remainder.
	StripTitles(name string) string
	// Tokenize splits a name into canonical comparable tokens.
	Tokenize(name string) []string
	// AreSurnameVariants reports whether a and b spell the same surname.
	AreSurnameVariants(a, b string) bool
	// TokenSimilarity is the culture aware counterpart of TokenSimilarity.
	TokenSimilarity(a, b string) float64
}
