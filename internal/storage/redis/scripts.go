package redis

import "github.com/redis/go-redis/v9"

// Account state lives in a hash (fields: display_name, balance,
// last_bonus, created_at; timestamps are unix seconds, last_bonus 0
// means never claimed) plus a leaderboard ZSET scored by balance.
//
// Every read-check-write sequence runs as a Lua script so the check and
// the write are one atomic unit on the server; concurrent callers on
// the same account serialize behind Redis's single command stream.
//
// Scripts reply with a flat array whose first element is a status code:
// codeOK, codeAwarded, codeNotFound or codeInsufficient, followed by
// the HMGET of the account fields when the account exists.

const (
	codeNotFound     = -1
	codeInsufficient = -2
	codeOK           = 0
	codeAwarded      = 1
)

// KEYS: account hash, leaderboard ZSET
// ARGV: id, display name hint, placeholder name, starting balance, now
var resolveOrCreateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	local name = ARGV[2]
	if name == "" then
		name = ARGV[3]
	end
	redis.call("HSET", KEYS[1],
		"display_name", name,
		"balance", ARGV[4],
		"last_bonus", 0,
		"created_at", ARGV[5])
	redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
elseif ARGV[2] ~= "" then
	redis.call("HSET", KEYS[1], "display_name", ARGV[2])
end
local fields = redis.call("HMGET", KEYS[1], "display_name", "balance", "last_bonus", "created_at")
return {0, fields[1], fields[2], fields[3], fields[4]}
`)

// KEYS: account hash, leaderboard ZSET
// ARGV: id, delta
var applyDeltaScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return {-1}
end
local balance = tonumber(redis.call("HGET", KEYS[1], "balance"))
local delta = tonumber(ARGV[2])
if balance + delta < 0 then
	return {-2}
end
balance = balance + delta
redis.call("HSET", KEYS[1], "balance", balance)
redis.call("ZADD", KEYS[2], balance, ARGV[1])
local fields = redis.call("HMGET", KEYS[1], "display_name", "balance", "last_bonus", "created_at")
return {0, fields[1], fields[2], fields[3], fields[4]}
`)

// KEYS: account hash, leaderboard ZSET
// ARGV: id, amount, window seconds, now
var grantBonusScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return {-1}
end
local last = tonumber(redis.call("HGET", KEYS[1], "last_bonus"))
local now = tonumber(ARGV[4])
if last ~= 0 and now - last < tonumber(ARGV[3]) then
	local fields = redis.call("HMGET", KEYS[1], "display_name", "balance", "last_bonus", "created_at")
	return {0, fields[1], fields[2], fields[3], fields[4]}
end
local balance = tonumber(redis.call("HGET", KEYS[1], "balance")) + tonumber(ARGV[2])
redis.call("HSET", KEYS[1], "balance", balance, "last_bonus", now)
redis.call("ZADD", KEYS[2], balance, ARGV[1])
local fields = redis.call("HMGET", KEYS[1], "display_name", "balance", "last_bonus", "created_at")
return {1, fields[1], fields[2], fields[3], fields[4]}
`)
