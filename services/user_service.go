package services

import (
	"errors"
	"log"
	"strings"

	"cp-mate-backend/models"
	"cp-mate-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserService manages profile data and platform handles.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) loadUser(c *fiber.Ctx) (*models.User, error) {
	userID := c.Locals("user_id").(string)
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetHandles returns the stored platform handles.
func (s *UserService) GetHandles(c *fiber.Ctx) error {
	user, err := s.loadUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"handles": user.Handles})
}

// UpdateHandles replaces the stored platform handles. Stale stats records
// for a platform stay in place until the next refresh overwrites them.
func (s *UserService) UpdateHandles(c *fiber.Ctx) error {
	var req models.PlatformHandles
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.LeetCode = strings.TrimSpace(req.LeetCode)
	req.Codeforces = strings.TrimSpace(req.Codeforces)

	user, err := s.loadUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user", "cause": err.Error(),
		})
	}

	user.Handles = req
	if err := s.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update handles", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"handles": user.Handles})
}

// UpdateProfile updates display fields only; credentials have their own flow.
func (s *UserService) UpdateProfile(c *fiber.Ctx) error {
	var req models.UserProfile
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.loadUser(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user", "cause": err.Error(),
		})
	}

	// Avatar changes only through the upload endpoint.
	req.Avatar = user.Profile.Avatar
	user.Profile = req
	if err := s.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile", "cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"profile": user.Profile})
}

// UploadAvatar stores the uploaded image in object storage and saves its
// public URL on the profile.
func (s *UserService) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}

	user, loadErr := s.loadUser(c)
	if loadErr != nil {
		if errors.Is(loadErr, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load user", "cause": loadErr.Error(),
		})
	}

	url, err := utils.UploadAvatar(fileHeader, user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to upload avatar", "cause": err.Error(),
		})
	}

	user.Profile.Avatar = url
	if err := s.DB.Save(user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save avatar", "cause": err.Error(),
		})
	}

	log.Printf("[USER] ✅ Avatar updated for %s", user.ID)
	return c.JSON(fiber.Map{"avatar": url})
}
