package services

import (
	"fmt"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/go-playground/validator/v10"
)

// MemberStore is the owner-scoped persistence contract for members
type MemberStore interface {
	InsertMember(member *models.Member) error
	FindMember(ownerID uint, memberID string) (*models.Member, error)
	FindMembers(ownerID uint) ([]models.Member, error)
}

// CreateMemberDTO represents the data for registering a member
type CreateMemberDTO struct {
	MemberID string `json:"id" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"required,gt=0"`
	Address  string `json:"address" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"required,max=30"`
}

// MemberService manages library member registration
type MemberService struct {
	store     MemberStore
	validator *validator.Validate
}

// NewMemberService creates a new MemberService instance
func NewMemberService(store MemberStore) *MemberService {
	return &MemberService{
		store:     store,
		validator: validator.New(),
	}
}

// List returns all members for the owner
func (s *MemberService) List(ownerID uint) ([]models.Member, error) {
	return s.store.FindMembers(ownerID)
}

// Create registers a new member, rejecting a member id already present
// for the owner
func (s *MemberService) Create(ownerID uint, dto CreateMemberDTO) (*models.Member, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	existing, err := s.store.FindMember(ownerID, dto.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing member: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateMemberID
	}

	member := &models.Member{
		MemberID: dto.MemberID,
		OwnerID:  ownerID,
		Name:     dto.Name,
		Age:      dto.Age,
		Address:  dto.Address,
		Phone:    dto.Phone,
	}

	if err := s.store.InsertMember(member); err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}

	return member, nil
}
