package services

import (
	"errors"

	"deck-stats-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnvironmentService struct {
	DB *gorm.DB
}

func NewEnvironmentService(db *gorm.DB) *EnvironmentService {
	return &EnvironmentService{DB: db}
}

type environmentInput struct {
	Name string `json:"name"`
}

// CreateEnvironment adds a new scoping environment. Names are unique.
func (s *EnvironmentService) CreateEnvironment(c *fiber.Ctx) error {
	var input environmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var count int64
	if err := s.DB.Model(&models.Environment{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment name already exists"})
	}

	env := models.Environment{Name: input.Name}
	if err := s.DB.Create(&env).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create environment"})
	}
	return c.Status(fiber.StatusCreated).JSON(env)
}

// GetAllEnvironments returns every environment, oldest first.
func (s *EnvironmentService) GetAllEnvironments(c *fiber.Ctx) error {
	var envs []models.Environment
	if err := s.DB.Order("id asc").Find(&envs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch environments"})
	}
	return c.JSON(envs)
}

func (s *EnvironmentService) GetEnvironmentByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid environment id"})
	}

	var env models.Environment
	if err := s.DB.First(&env, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(env)
}

func (s *EnvironmentService) UpdateEnvironment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid environment id"})
	}

	var input environmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var env models.Environment
	if err := s.DB.First(&env, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if input.Name != env.Name {
		var count int64
		if err := s.DB.Model(&models.Environment{}).Where("name = ? AND id <> ?", input.Name, id).Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if count > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment name already exists"})
		}
	}

	env.Name = input.Name
	if err := s.DB.Save(&env).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update environment"})
	}
	return c.JSON(env)
}

// DeleteEnvironment refuses to remove an environment still referenced by
// decks; the caller must move or delete the decks first.
func (s *EnvironmentService) DeleteEnvironment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid environment id"})
	}

	var env models.Environment
	if err := s.DB.First(&env, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "environment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var deckCount int64
	if err := s.DB.Model(&models.Deck{}).Where("environment_id = ?", id).Count(&deckCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if deckCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "environment is still in use by decks"})
	}

	if err := s.DB.Delete(&env).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete environment"})
	}
	return c.JSON(fiber.Map{"message": "environment deleted"})
}
