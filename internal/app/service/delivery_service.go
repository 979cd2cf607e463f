package service

import (
	"errors"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrDeliveryOptionNotFound = errors.New("delivery option not found")

type DeliveryService interface {
	GetOptions(activeOnly bool) ([]model.DeliveryOption, error)
	GetOptionByID(id uint) (*model.DeliveryOption, error)
	CreateOption(option *model.DeliveryOption) error
	UpdateOption(option *model.DeliveryOption) error
	DeleteOption(id uint) error
}

type deliveryService struct {
	deliveryRepo repository.DeliveryOptionRepository
}

func NewDeliveryService(deliveryRepo repository.DeliveryOptionRepository) DeliveryService {
	return &deliveryService{deliveryRepo: deliveryRepo}
}

func (s *deliveryService) GetOptions(activeOnly bool) ([]model.DeliveryOption, error) {
	return s.deliveryRepo.FindAll(activeOnly)
}

func (s *deliveryService) GetOptionByID(id uint) (*model.DeliveryOption, error) {
	option, err := s.deliveryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryOptionNotFound
		}
		return nil, err
	}
	return option, nil
}

func (s *deliveryService) CreateOption(option *model.DeliveryOption) error {
	logger.Info("Creating delivery option", map[string]interface{}{
		"name":  option.Name,
		"price": option.Price,
	})
	return s.deliveryRepo.Create(option)
}

func (s *deliveryService) UpdateOption(option *model.DeliveryOption) error {
	logger.Info("Updating delivery option", map[string]interface{}{
		"delivery_option_id": option.ID,
	})

	if _, err := s.deliveryRepo.FindByID(option.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryOptionNotFound
		}
		return err
	}
	return s.deliveryRepo.Update(option)
}

func (s *deliveryService) DeleteOption(id uint) error {
	logger.Info("Deleting delivery option", map[string]interface{}{
		"delivery_option_id": id,
	})

	if _, err := s.deliveryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryOptionNotFound
		}
		return err
	}
	return s.deliveryRepo.Delete(id)
}
