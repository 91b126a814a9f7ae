package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ParkingSpaceInput struct {
	Name           string
	Address        string
	City           string
	Latitude       float64
	Longitude      float64
	Description    *string
	ImageURL       *string
	Price          int
	TotalSpots     int
	AvailableSpots *int
	Amenities      []string
	VehicleTypes   []string
}

type SpaceFilter struct {
	City     string
	Search   string
	MaxPrice int
	Page     Page
}

func validateSpace(price, total, available int) error {
	if price <= 0 {
		return apperror.BadRequest(CodeInvalidPrice, "price per hour must be greater than zero")
	}
	if total <= 0 || available < 0 || available > total {
		return apperror.BadRequest(CodeInvalidSpotCounts, "available spots must be between 0 and total spots")
	}
	return nil
}

// CreateParkingSpace lists a new space for ownerID. It starts pending until
// an admin approves it.
func CreateParkingSpace(ownerID uuid.UUID, in ParkingSpaceInput) (*models.ParkingSpace, error) {
	available := in.TotalSpots
	if in.AvailableSpots != nil {
		available = *in.AvailableSpots
	}
	if err := validateSpace(in.Price, in.TotalSpots, available); err != nil {
		return nil, err
	}

	space := models.ParkingSpace{
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		Price:          in.Price,
		TotalSpots:     in.TotalSpots,
		AvailableSpots: available,
		Status:         models.SpaceStatusPending,
		Amenities:      datatypes.NewJSONSlice(nonNil(in.Amenities)),
		VehicleTypes:   datatypes.NewJSONSlice(nonNil(in.VehicleTypes)),
	}
	if err := database.DB.Create(&space).Error; err != nil {
		return nil, fmt.Errorf("create parking space: %w", err)
	}
	invalidateStats(ownerID)
	logger.Log.Info().Str("space_id", space.ID.String()).Str("owner_id", ownerID.String()).Msg("parking space created")
	return &space, nil
}

func loadSpace(tx *gorm.DB, id uuid.UUID) (*models.ParkingSpace, error) {
	var space models.ParkingSpace
	if err := tx.First(&space, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(CodeParkingSpaceNotFound, "parking space not found")
		}
		return nil, fmt.Errorf("load parking space: %w", err)
	}
	return &space, nil
}

func canManageSpace(space *models.ParkingSpace, actor Actor) bool {
	return actor.IsAdmin() || space.OwnerID == actor.UserID
}

// UpdateParkingSpace replaces the editable fields of a space.
func UpdateParkingSpace(actor Actor, id uuid.UUID, in ParkingSpaceInput) (*models.ParkingSpace, error) {
	space, err := loadSpace(database.DB, id)
	if err != nil {
		return nil, err
	}
	if !canManageSpace(space, actor) {
		return nil, apperror.Forbidden("you can only manage your own parking spaces")
	}

	available := space.AvailableSpots
	if in.AvailableSpots != nil {
		available = *in.AvailableSpots
	}
	if err := validateSpace(in.Price, in.TotalSpots, available); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":            strings.TrimSpace(in.Name),
		"address":         strings.TrimSpace(in.Address),
		"city":            strings.TrimSpace(in.City),
		"latitude":        in.Latitude,
		"longitude":       in.Longitude,
		"description":     in.Description,
		"image_url":       in.ImageURL,
		"price":           in.Price,
		"total_spots":     in.TotalSpots,
		"available_spots": available,
		"amenities":       datatypes.NewJSONSlice(nonNil(in.Amenities)),
		"vehicle_types":   datatypes.NewJSONSlice(nonNil(in.VehicleTypes)),
	}
	if err := database.DB.Model(&models.ParkingSpace{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update parking space: %w", err)
	}
	invalidateStats(space.OwnerID)
	return loadSpace(database.DB, id)
}

// SetParkingSpaceStatus changes visibility. Owners may only toggle an
// approved space between active and inactive; admins may set any status.
func SetParkingSpaceStatus(actor Actor, id uuid.UUID, status string) (*models.ParkingSpace, error) {
	if !models.IsValidSpaceStatus(status) {
		return nil, apperror.BadRequest(CodeInvalidStatus, fmt.Sprintf("invalid status %q", status))
	}
	space, err := loadSpace(database.DB, id)
	if err != nil {
		return nil, err
	}
	if !canManageSpace(space, actor) {
		return nil, apperror.Forbidden("you can only manage your own parking spaces")
	}
	if !actor.IsAdmin() {
		if status == models.SpaceStatusPending || space.Status == models.SpaceStatusPending {
			return nil, apperror.Conflict(CodeInvalidStatus, "a pending space must be approved by an admin first")
		}
	}

	if err := database.DB.Model(&models.ParkingSpace{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update parking space status: %w", err)
	}
	invalidateStats(space.OwnerID)
	logger.Log.Info().
		Str("space_id", id.String()).
		Str("from", space.Status).
		Str("to", status).
		Str("actor_id", actor.UserID.String()).
		Msg("parking space status changed")
	space.Status = status
	return space, nil
}

// DeleteParkingSpace removes the space and every booking made against it.
func DeleteParkingSpace(id uuid.UUID) error {
	var ownerID uuid.UUID
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		space, err := loadSpace(tx, id)
		if err != nil {
			return err
		}
		ownerID = space.OwnerID

		var bookingIDs []uuid.UUID
		if err := tx.Model(&models.Booking{}).Where("parking_space_id = ?", id).Pluck("id", &bookingIDs).Error; err != nil {
			return fmt.Errorf("load space bookings: %w", err)
		}
		if err := deleteBookingsInTx(tx, bookingIDs); err != nil {
			return err
		}
		if err := tx.Delete(&models.ParkingSpace{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete parking space: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidateStats(ownerID)
	return nil
}

func GetParkingSpace(id uuid.UUID) (*models.ParkingSpace, error) {
	return loadSpace(database.DB, id)
}

// GetActiveParkingSpace hides spaces that are not publicly listed.
func GetActiveParkingSpace(id uuid.UUID) (*models.ParkingSpace, error) {
	space, err := loadSpace(database.DB, id)
	if err != nil {
		return nil, err
	}
	if space.Status != models.SpaceStatusActive {
		return nil, apperror.NotFound(CodeParkingSpaceNotFound, "parking space not found")
	}
	return space, nil
}

func ListOwnerParkingSpaces(ownerID uuid.UUID) ([]models.ParkingSpace, error) {
	spaces := make([]models.ParkingSpace, 0)
	if err := database.DB.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&spaces).Error; err != nil {
		return nil, fmt.Errorf("list owner parking spaces: %w", err)
	}
	return spaces, nil
}

// ListActiveParkingSpaces is the public catalog.
func ListActiveParkingSpaces(filter SpaceFilter) (PageResult[models.ParkingSpace], error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("status = ?", models.SpaceStatusActive)
		if city := strings.TrimSpace(filter.City); city != "" {
			q = q.Where("LOWER(city) = ?", strings.ToLower(city))
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
		}
		if filter.MaxPrice > 0 {
			q = q.Where("price <= ?", filter.MaxPrice)
		}
		return q
	}

	var total int64
	if err := scope(database.DB.Model(&models.ParkingSpace{})).Count(&total).Error; err != nil {
		return PageResult[models.ParkingSpace]{}, fmt.Errorf("count parking spaces: %w", err)
	}
	var spaces []models.ParkingSpace
	err := scope(database.DB.Model(&models.ParkingSpace{})).
		Order("price asc").
		Order("name asc").
		Limit(filter.Page.Size).
		Offset(filter.Page.Offset()).
		Find(&spaces).Error
	if err != nil {
		return PageResult[models.ParkingSpace]{}, fmt.Errorf("list parking spaces: %w", err)
	}
	return NewPageResult(spaces, total, filter.Page), nil
}

// ListAllParkingSpaces is the admin view, optionally filtered by status.
func ListAllParkingSpaces(status string, page Page) (PageResult[models.ParkingSpace], error) {
	if status != "" && !models.IsValidSpaceStatus(status) {
		return PageResult[models.ParkingSpace]{}, apperror.BadRequest(CodeInvalidStatus, fmt.Sprintf("invalid status %q", status))
	}
	scope := func(q *gorm.DB) *gorm.DB {
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}
	var total int64
	if err := scope(database.DB.Model(&models.ParkingSpace{})).Count(&total).Error; err != nil {
		return PageResult[models.ParkingSpace]{}, fmt.Errorf("count parking spaces: %w", err)
	}
	var spaces []models.ParkingSpace
	err := scope(database.DB.Model(&models.ParkingSpace{})).
		Preload("Owner").
		Order("created_at desc").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&spaces).Error
	if err != nil {
		return PageResult[models.ParkingSpace]{}, fmt.Errorf("list parking spaces: %w", err)
	}
	return NewPageResult(spaces, total, page), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
