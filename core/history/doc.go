// Package history stores the tokens of committed navigations for back navigation.
//
// MemoryStore keeps the stack in process. RedisStore keeps it in a Redis list so the history
// survives restarts of a headless application. Both are bounded: pushing above the limit
// drops the oldest entries.
package history
