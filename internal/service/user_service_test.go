package service

import (
	"testing"

	"github.com/tritonir/nondan-backend/internal/model"
	"github.com/tritonir/nondan-backend/internal/pkg"
	rds "github.com/tritonir/nondan-backend/internal/repository/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(db)

	require.NoError(t, svc.Signup("Ada", "ada@campus.test", "pass1234", ""))

	// 重复邮箱
	assert.Error(t, svc.Signup("Ada Again", "ada@campus.test", "pass1234", ""))

	var u model.User
	require.NoError(t, db.Where("email = ?", "ada@campus.test").First(&u).Error)
	assert.Equal(t, model.PlatformRoleStudent, u.Role)
	assert.NotEqual(t, "pass1234", u.Password) // bcrypt 而不是明文

	pair, err := svc.Login("ada@campus.test", "pass1234")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// 登录写入了 redis 会话
	stored, err := (&rds.UserRepository{}).GetUserToken(u.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, stored)

	_, err = svc.Login("ada@campus.test", "wrong")
	assert.Error(t, err)
	_, err = svc.Login("nobody@campus.test", "pass1234")
	assert.Error(t, err)
}

func TestSignupValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	var ve *pkg.ValidationError
	require.ErrorAs(t, svc.Signup("", "a@b.c", "p", ""), &ve)
	assert.Equal(t, "fullname", ve.Field)
	require.ErrorAs(t, svc.Signup("A", "", "p", ""), &ve)
	assert.Equal(t, "email", ve.Field)
	require.ErrorAs(t, svc.Signup("A", "a@b.c", "", ""), &ve)
	assert.Equal(t, "password", ve.Field)
}

func TestChangePasswordKicksSession(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(db)

	require.NoError(t, svc.Signup("Bob", "bob@campus.test", "old-pass", ""))
	var u model.User
	require.NoError(t, db.Where("email = ?", "bob@campus.test").First(&u).Error)
	_, err := svc.Login("bob@campus.test", "old-pass")
	require.NoError(t, err)

	assert.Error(t, svc.ChangePassword(u.ID, "bad-guess", "new-pass"))
	require.NoError(t, svc.ChangePassword(u.ID, "old-pass", "new-pass"))

	// 旧会话被踢，旧密码失效
	_, err = (&rds.UserRepository{}).GetUserToken(u.ID)
	assert.Error(t, err)
	_, err = svc.Login("bob@campus.test", "old-pass")
	assert.Error(t, err)
	_, err = svc.Login("bob@campus.test", "new-pass")
	assert.NoError(t, err)
}

func TestRefreshRotatesPair(t *testing.T) {
	db := newTestDB(t)
	newTestRedis(t)
	svc := NewUserService(db)

	require.NoError(t, svc.Signup("Eve", "eve@campus.test", "pw", ""))
	pair, err := svc.Login("eve@campus.test", "pw")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := pkg.ParseAccess(next.AccessToken)
	require.NoError(t, err)

	var u model.User
	require.NoError(t, db.Where("email = ?", "eve@campus.test").First(&u).Error)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = svc.Refresh("not-a-token")
	assert.Error(t, err)
}
