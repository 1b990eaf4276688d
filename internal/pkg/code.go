package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

// 邀请码固定 6 位数字，和邮件模板、handler 侧的 len=6 校验一致
const inviteCodeDigits = 6

// InviteCode 生成一次性社团邀请码
func InviteCode() (string, error) {
	var b strings.Builder
	for i := 0; i < inviteCodeDigits; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}
