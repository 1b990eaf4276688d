package handler

import (
	"errors"
	"net/http"

	"github.com/tritonir/nondan-backend/internal/pkg"
	"github.com/tritonir/nondan-backend/internal/repository/redis"
	"github.com/tritonir/nondan-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// fail 错误分类到 HTTP 状态码的唯一出口。
// 鉴权拒绝永远是 403，不会升级成 500
func fail(c *gin.Context, err error) {
	var ve *pkg.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": ve.Error()})
		return
	}

	var nf *pkg.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"msg": nf.Error()})
		return
	}

	var de *pkg.DeniedError
	if errors.As(err, &de) {
		c.JSON(http.StatusForbidden, gin.H{"msg": de.Error(), "reason": de.Reason})
		return
	}

	if errors.Is(err, pkg.ErrAlreadyRegistered) {
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
		return
	}

	switch {
	case errors.Is(err, service.ErrPresidentProtected),
		errors.Is(err, service.ErrUnknownRole),
		errors.Is(err, redis.ErrInviteNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	var ce *pkg.ConsistencyError
	if errors.As(err, &ce) {
		logrus.WithError(ce).Error("consistency violation surfaced to handler")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
}

func currentUserID(c *gin.Context) uint64 {
	userIDAny, _ := c.Get("user_id")
	id, _ := userIDAny.(uint64)
	return id
}
