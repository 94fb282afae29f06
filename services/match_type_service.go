package services

import (
	"errors"

	"deck-stats-system/middleware"
	"deck-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchTypeService struct {
	DB *gorm.DB
}

func NewMatchTypeService(db *gorm.DB) *MatchTypeService {
	return &MatchTypeService{DB: db}
}

type matchTypeInput struct {
	Name              string `json:"name"`
	RequirePermission bool   `json:"require_permission"`
	IsPrivate         bool   `json:"is_private"`
}

// visibleTo reports whether the caller may see this match type at all.
func (s *MatchTypeService) visibleTo(c *fiber.Ctx, mt *models.MatchType) bool {
	if middleware.IsModerator(c) {
		return true
	}
	if mt.RequirePermission {
		return false
	}
	if mt.IsPrivate {
		var count int64
		s.DB.Model(&models.MatchTypeMember{}).
			Where("match_type_id = ? AND user_id = ?", mt.ID, middleware.UserID(c)).
			Count(&count)
		return count > 0
	}
	return true
}

// CreateMatchType adds a match type. Moderator+. Private types get a fresh
// invite code for the member join flow.
func (s *MatchTypeService) CreateMatchType(c *fiber.Ctx) error {
	var input matchTypeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var count int64
	if err := s.DB.Model(&models.MatchType{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match type name already exists"})
	}

	mt := models.MatchType{
		Name:              input.Name,
		RequirePermission: input.RequirePermission,
		IsPrivate:         input.IsPrivate,
	}
	if input.IsPrivate {
		mt.InviteCode = uuid.NewString()
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mt).Error; err != nil {
			return err
		}
		if mt.IsPrivate {
			// Creator joins their own private type.
			return tx.Create(&models.MatchTypeMember{
				MatchTypeID: mt.ID,
				UserID:      middleware.UserID(c),
			}).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match type"})
	}
	return c.Status(fiber.StatusCreated).JSON(mt)
}

// GetAllMatchTypes lists match types the caller may see. Plain players never
// see permission-gated rows; private rows are limited to members. The invite
// code is stripped for non-moderators.
func (s *MatchTypeService) GetAllMatchTypes(c *fiber.Ctx) error {
	var matchTypes []models.MatchType
	if err := s.DB.Order("id asc").Find(&matchTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch match types"})
	}

	visible := make([]models.MatchType, 0, len(matchTypes))
	for _, mt := range matchTypes {
		if !s.visibleTo(c, &mt) {
			continue
		}
		if !middleware.IsModerator(c) {
			mt.InviteCode = ""
		}
		visible = append(visible, mt)
	}
	return c.JSON(visible)
}

func (s *MatchTypeService) GetMatchTypeByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match type id"})
	}

	var mt models.MatchType
	if err := s.DB.Preload("Members").First(&mt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	// Hidden types 404 rather than 403 so their existence is not leaked.
	if !s.visibleTo(c, &mt) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
	}
	if !middleware.IsModerator(c) {
		mt.InviteCode = ""
		mt.Members = nil
	}
	return c.JSON(mt)
}

func (s *MatchTypeService) UpdateMatchType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match type id"})
	}

	var input matchTypeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var mt models.MatchType
	if err := s.DB.First(&mt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var count int64
	if err := s.DB.Model(&models.MatchType{}).Where("name = ? AND id <> ?", input.Name, id).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match type name already exists"})
	}

	mt.Name = input.Name
	mt.RequirePermission = input.RequirePermission
	if input.IsPrivate && !mt.IsPrivate {
		mt.InviteCode = uuid.NewString()
	}
	mt.IsPrivate = input.IsPrivate
	if err := s.DB.Save(&mt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update match type"})
	}
	return c.JSON(mt)
}

// DeleteMatchType removes the type together with its match records and
// member list.
func (s *MatchTypeService) DeleteMatchType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match type id"})
	}

	var mt models.MatchType
	if err := s.DB.First(&mt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_type_id = ?", id).Delete(&models.MatchResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("match_type_id = ?", id).Delete(&models.MatchTypeMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&mt).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete match type"})
	}
	return c.JSON(fiber.Map{"message": "match type and related match records deleted"})
}

type joinInput struct {
	InviteCode string `json:"invite_code"`
}

// JoinMatchType adds the caller to a private type's member list given the
// correct invite code.
func (s *MatchTypeService) JoinMatchType(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match type id"})
	}

	var input joinInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var mt models.MatchType
	if err := s.DB.First(&mt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match type not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if !mt.IsPrivate {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match type is not private"})
	}
	if mt.InviteCode == "" || input.InviteCode != mt.InviteCode {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid invite code"})
	}

	member := models.MatchTypeMember{MatchTypeID: mt.ID, UserID: middleware.UserID(c)}
	if err := s.DB.FirstOrCreate(&member, models.MatchTypeMember{
		MatchTypeID: mt.ID,
		UserID:      middleware.UserID(c),
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to join match type"})
	}
	return c.JSON(fiber.Map{"message": "joined match type"})
}
