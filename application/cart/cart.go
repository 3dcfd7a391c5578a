package cart

import (
	"context"

	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	cartrepo "github.com/farmlink/marketplace/repository/cart"
	productrepo "github.com/farmlink/marketplace/repository/product"
	"github.com/farmlink/marketplace/utils/errors"
	"github.com/farmlink/marketplace/utils/logger"
	"go.uber.org/zap"
)

// Issue reasons reported by ValidateCart.
const (
	ReasonCartEmpty         = "cart is empty"
	ReasonProductGone       = "product no longer exists"
	ReasonUnavailable       = "product is not available"
	ReasonInsufficientStock = "requested quantity exceeds stock"
	ReasonPriceChanged      = "price changed since item was added"
)

type CartApp interface {
	AddToCart(ctx context.Context, buyerID uint64, req *model.AddCartItemRequest) (*model.CartResponse, error)
	UpdateCartItem(ctx context.Context, buyerID, productID uint64, req *model.UpdateCartItemRequest) (*model.CartResponse, error)
	RemoveCartItem(ctx context.Context, buyerID, productID uint64) error
	GetCart(ctx context.Context, buyerID uint64) (*model.CartResponse, error)
	ClearCart(ctx context.Context, buyerID uint64) error
	ValidateCart(ctx context.Context, buyerID uint64) (*model.CartValidation, error)
}

type cartAppImpl struct {
	cartRepo    cartrepo.CartRepository
	productRepo productrepo.ProductRepository
}

func NewCartApp(cartRepo cartrepo.CartRepository, productRepo productrepo.ProductRepository) CartApp {
	return &cartAppImpl{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartAppImpl) AddToCart(ctx context.Context, buyerID uint64, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		logger.Error("[AddToCart] get product", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if product == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	if !product.Available {
		return nil, errors.SetCustomError(constant.ErrProductUnavailable)
	}

	quantity := req.Quantity
	existing, err := s.cartRepo.GetItem(ctx, buyerID, req.ProductID)
	if err != nil {
		logger.Error("[AddToCart] get cart item", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > constant.MaxCartQuantity {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	item := &model.CartItem{
		ProductID:     req.ProductID,
		Quantity:      quantity,
		PriceSnapshot: product.Price,
	}
	if err := s.cartRepo.SetItem(ctx, buyerID, item); err != nil {
		logger.Error("[AddToCart] set cart item", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return s.GetCart(ctx, buyerID)
}

func (s *cartAppImpl) UpdateCartItem(ctx context.Context, buyerID, productID uint64, req *model.UpdateCartItemRequest) (*model.CartResponse, error) {
	existing, err := s.cartRepo.GetItem(ctx, buyerID, productID)
	if err != nil {
		logger.Error("[UpdateCartItem] get cart item", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	existing.Quantity = req.Quantity
	if err := s.cartRepo.SetItem(ctx, buyerID, existing); err != nil {
		logger.Error("[UpdateCartItem] set cart item", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return s.GetCart(ctx, buyerID)
}

func (s *cartAppImpl) RemoveCartItem(ctx context.Context, buyerID, productID uint64) error {
	if err := s.cartRepo.RemoveItem(ctx, buyerID, productID); err != nil {
		logger.Error("[RemoveCartItem] remove cart item", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *cartAppImpl) GetCart(ctx context.Context, buyerID uint64) (*model.CartResponse, error) {
	items, err := s.cartRepo.GetCart(ctx, buyerID)
	if err != nil {
		logger.Error("[GetCart] get cart", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return &model.CartResponse{Items: items}, nil
}

func (s *cartAppImpl) ClearCart(ctx context.Context, buyerID uint64) error {
	if err := s.cartRepo.Clear(ctx, buyerID); err != nil {
		logger.Error("[ClearCart] clear cart", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

// ValidateCart re-checks every cart line against the live catalog. It is
// read-only and safe to call any number of times: stock and cart state are
// never touched here. Lines are always priced at the current catalog
// price; a drift from the snapshot is a warning, not an error.
func (s *cartAppImpl) ValidateCart(ctx context.Context, buyerID uint64) (*model.CartValidation, error) {
	items, err := s.cartRepo.GetCart(ctx, buyerID)
	if err != nil {
		logger.Error("[ValidateCart] get cart", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	result := &model.CartValidation{
		Valid:    true,
		Errors:   make([]model.CartIssue, 0),
		Warnings: make([]model.CartIssue, 0),
		Lines:    make([]model.ValidatedLine, 0, len(items)),
	}

	if len(items) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, model.CartIssue{Reason: ReasonCartEmpty})
		return result, nil
	}

	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			logger.Error("[ValidateCart] get product", zap.Uint64("product_id", item.ProductID), zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if product == nil {
			result.Valid = false
			result.Errors = append(result.Errors, model.CartIssue{ProductID: item.ProductID, Reason: ReasonProductGone})
			continue
		}

		line := model.ValidatedLine{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: int64(item.Quantity) * product.Price,
			Available: true,
		}

		if !product.Available {
			line.Available = false
			result.Valid = false
			result.Errors = append(result.Errors, model.CartIssue{ProductID: item.ProductID, Reason: ReasonUnavailable})
		} else if product.Stock < int64(item.Quantity) {
			line.Available = false
			result.Valid = false
			result.Errors = append(result.Errors, model.CartIssue{ProductID: item.ProductID, Reason: ReasonInsufficientStock})
		}

		if product.Price != item.PriceSnapshot {
			result.Warnings = append(result.Warnings, model.CartIssue{ProductID: item.ProductID, Reason: ReasonPriceChanged})
		}

		result.Lines = append(result.Lines, line)
	}

	return result, nil
}
