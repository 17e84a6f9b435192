package handlers

import (
	"net/http"
	"strings"

	"grc-platform/internal/database"
	"grc-platform/internal/middleware"
	"grc-platform/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerForm struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=50"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
	Role     string `form:"role" json:"role" binding:"required"`
}

// регистрация пользователей — только админ
func Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "invalid user data")
		return
	}

	form.Username = strings.TrimSpace(form.Username)
	role := models.UserRole(form.Role)
	switch role {
	case models.RoleAdmin, models.RoleAnalyst, models.RoleViewer:
	default:
		fail(c, http.StatusBadRequest, "invalid role")
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", form.Username).First(&existing).Error; err == nil {
		fail(c, http.StatusConflict, "user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user := models.User{
		Username:     form.Username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		fail(c, http.StatusInternalServerError, "failed to save user")
		return
	}

	database.CreateAuditLog(database.DB, middleware.CurrentUserID(c), "user", user.ID, "create", "Created user "+user.Username)
	respond(c, http.StatusCreated, gin.H{"user": user})
}

type loginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, http.StatusBadRequest, "invalid credentials")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", form.Username).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "wrong username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "wrong username or password")
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
