// Package normalisers projects each provider's raw results into the
// provider-independent NormalizedResult shape.
//
// There is one projection per provider, registered in a Registry keyed by
// provider id. Projections tolerate missing optional fields and reject
// only items that cannot be identified at all (no native id and no url).
// Result ids are namespaced as "<provider>:<native id>" so they stay unique
// when several providers answer the same query.
package normalisers
