package cache

import "strings"

const (
	GlobalKeyPrefix = "psychoreport"

	// noScope stands in for an absent scope id so keys keep a fixed arity.
	noScope = "_"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// AnalysisKey is the front-cache key of the active analysis entry for
// (type, user, scope): psychoreport:analysis:<type>:<user>:<scope>.
func AnalysisKey(analysisType, userID, scopeID string) string {
	if scopeID == "" {
		scopeID = noScope
	}
	return strings.Join([]string{GlobalKeyPrefix, "analysis", analysisType, userID, scopeID}, ":")
}
