package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	InviteTTL       = 72 * time.Hour
	InviteKeyPrefix = "club:invite"
)

var (
	ErrInviteStoreFailed = errors.New("invite store failed")
	ErrInviteNotFound    = errors.New("invite not found or expired")
)

// Invite 待接受的社团邀请，整体存为 JSON
type Invite struct {
	ClubID uint64 `json:"club_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
}

type InviteRepository struct{}

func inviteKey(code string) string {
	return fmt.Sprintf("%s:%s", InviteKeyPrefix, code)
}

func (r *InviteRepository) Put(code string, inv *Invite) error {
	raw, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	if err := Client.Set(context.Background(), inviteKey(code), raw, InviteTTL).Err(); err != nil {
		return ErrInviteStoreFailed
	}
	return nil
}

// Consume 一次性消费邀请码。lua 保证取值+删除原子执行，
// 同一个码并发接受只会成功一次
func (r *InviteRepository) Consume(code string) (*Invite, error) {
	script := `
local val = redis.call("GET", KEYS[1])
if not val then
  return false
end
redis.call("DEL", KEYS[1])
return val
`
	res, err := Client.Eval(context.Background(), script, []string{inviteKey(code)}).Result()
	if err != nil {
		return nil, ErrInviteNotFound
	}
	raw, ok := res.(string)
	if !ok {
		return nil, ErrInviteNotFound
	}
	var inv Invite
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Delete 撤销邀请（幂等）
func (r *InviteRepository) Delete(code string) error {
	return Client.Del(context.Background(), inviteKey(code)).Err()
}
