package infra_redis_roomstore

import "github.com/go-redis/redis"

// Every mutation is a single script so that checks and writes are atomic
// and the change notice is published in the same step.
//
// Room hash fields: owner_id, created_at (unix us), capacity, status,
// member_count, revision. Members hash: user id -> joined_at (unix us).
// Names hash: user id -> display name.

// KEYS: room, members, names, user rooms, created index
// ARGV: room id, owner id, created us, capacity, status, display name, channel
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1],
	'owner_id', ARGV[2],
	'created_at', ARGV[3],
	'capacity', ARGV[4],
	'status', ARGV[5],
	'member_count', 1,
	'revision', 1)
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('HSET', KEYS[3], ARGV[2], ARGV[6])
redis.call('ZADD', KEYS[4], ARGV[3], ARGV[1])
redis.call('ZADD', KEYS[5], ARGV[3], ARGV[1])
redis.call('PUBLISH', ARGV[7], 'created')
return 1
`)

// KEYS: room, members, names, user rooms
// ARGV: user id, display name, joined us, capacity, channel, room id
var addMemberScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') ~= 'active' then
	return -1
end
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 1 then
	if redis.call('HGET', KEYS[3], ARGV[1]) ~= ARGV[2] then
		redis.call('HSET', KEYS[3], ARGV[1], ARGV[2])
		redis.call('HINCRBY', KEYS[1], 'revision', 1)
		redis.call('PUBLISH', ARGV[5], 'renamed')
	end
	return 0
end
if redis.call('HLEN', KEYS[2]) >= tonumber(ARGV[4]) then
	return -2
end
redis.call('HSET', KEYS[2], ARGV[1], ARGV[3])
redis.call('HSET', KEYS[3], ARGV[1], ARGV[2])
redis.call('HINCRBY', KEYS[1], 'member_count', 1)
redis.call('HINCRBY', KEYS[1], 'revision', 1)
redis.call('ZADD', KEYS[4], ARGV[3], ARGV[6])
redis.call('PUBLISH', ARGV[5], 'joined')
return 1
`)

// KEYS: room, members, names, user rooms
// ARGV: user id, channel, room id
var removeMemberScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if redis.call('HDEL', KEYS[2], ARGV[1]) == 0 then
	return -2
end
redis.call('HDEL', KEYS[3], ARGV[1])
redis.call('ZREM', KEYS[4], ARGV[3])
local remaining = redis.call('HINCRBY', KEYS[1], 'member_count', -1)
redis.call('HINCRBY', KEYS[1], 'revision', 1)
redis.call('PUBLISH', ARGV[2], 'left')
return remaining
`)

// KEYS: room
// ARGV: status or '', expected member count or '', channel
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if ARGV[2] ~= '' and tonumber(redis.call('HGET', KEYS[1], 'member_count')) ~= tonumber(ARGV[2]) then
	return -2
end
if ARGV[1] ~= '' then
	redis.call('HSET', KEYS[1], 'status', ARGV[1])
end
redis.call('PUBLISH', ARGV[3], 'updated')
return 1
`)

// Per-user index keys are derived inside the script, so this one assumes a
// single-node deployment.
//
// KEYS: room, members, names, created index
// ARGV: room id, channel, user key prefix, user key suffix
var deleteScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local users = redis.call('HKEYS', KEYS[2])
for _, user in ipairs(users) do
	redis.call('ZREM', ARGV[3] .. user .. ARGV[4], ARGV[1])
end
redis.call('DEL', KEYS[1], KEYS[2], KEYS[3])
redis.call('ZREM', KEYS[4], ARGV[1])
redis.call('PUBLISH', ARGV[2], 'deleted')
return 1
`)

// KEYS: room, members, names
var snapshotScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
return {
	redis.call('HGET', KEYS[1], 'revision'),
	redis.call('HGETALL', KEYS[2]),
	redis.call('HGETALL', KEYS[3])
}
`)
