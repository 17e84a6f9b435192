package middleware

import (
	"grc-platform/internal/database"
	"grc-platform/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "CurrentUser"

func InjectUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get("user_id").(uint); ok && uid > 0 && database.DB != nil {
			var user models.User
			if err := database.DB.First(&user, uid).Error; err == nil {
				c.Set(CurrentUserKey, user)
			}
		}

		c.Next()
	}
}

// 0 — если никто не залогинен
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(models.User); ok {
			return u.ID
		}
	}
	return 0
}
