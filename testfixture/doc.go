// Package testfixture implements the engine's exact, bit-for-bit serialized
// dump format used for regression comparison across implementations: a
// node table, a path table, and an occurrence table, each sorted into a
// deterministic order so two dumps of an isomorphic graph compare equal
// byte-for-byte regardless of internal record layout or insertion order.
package testfixture
