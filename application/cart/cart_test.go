package cart_test

import (
	"context"
	"errors"
	"testing"

	appcart "github.com/farmlink/marketplace/application/cart"
	"github.com/farmlink/marketplace/constant"
	cartmocks "github.com/farmlink/marketplace/mocks/repository/cart"
	productmocks "github.com/farmlink/marketplace/mocks/repository/product"
	"github.com/farmlink/marketplace/model"
	cerr "github.com/farmlink/marketplace/utils/errors"
	"github.com/stretchr/testify/mock"
)

func TestCartApp_AddToCart(t *testing.T) {
	type fields struct {
		cartRepo    *cartmocks.CartRepository
		productRepo *productmocks.ProductRepository
	}
	type args struct {
		ctx     context.Context
		buyerID uint64
		req     *model.AddCartItemRequest
	}
	tests := []struct {
		name     string
		fields   fields
		args     args
		mockCall func(f fields)
		want     *model.CartResponse
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: add new item snapshots current price",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 10, Quantity: 3},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 50, Available: true,
				}, nil).Once()
				f.cartRepo.On("GetItem", mock.Anything, uint64(1), uint64(10)).Return(nil, nil).Once()
				f.cartRepo.On("SetItem", mock.Anything, uint64(1), &model.CartItem{
					ProductID: 10, Quantity: 3, PriceSnapshot: 2500,
				}).Return(nil).Once()
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 3, PriceSnapshot: 2500},
				}, nil).Once()
			},
			want: &model.CartResponse{Items: []model.CartItem{
				{ProductID: 10, Quantity: 3, PriceSnapshot: 2500},
			}},
			wantErr: false,
		},
		{
			name: "success: adding an existing product accumulates quantity",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 10, Quantity: 2},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 50, Available: true,
				}, nil).Once()
				f.cartRepo.On("GetItem", mock.Anything, uint64(1), uint64(10)).Return(&model.CartItem{
					ProductID: 10, Quantity: 3, PriceSnapshot: 2400,
				}, nil).Once()
				f.cartRepo.On("SetItem", mock.Anything, uint64(1), &model.CartItem{
					ProductID: 10, Quantity: 5, PriceSnapshot: 2500,
				}).Return(nil).Once()
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 5, PriceSnapshot: 2500},
				}, nil).Once()
			},
			want: &model.CartResponse{Items: []model.CartItem{
				{ProductID: 10, Quantity: 5, PriceSnapshot: 2500},
			}},
			wantErr: false,
		},
		{
			name: "error: product not found",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 999, Quantity: 1},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(999)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name: "error: product not available",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 10, Quantity: 1},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, Price: 2500, Stock: 50, Available: false,
				}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrProductUnavailable,
		},
		{
			name: "error: accumulated quantity exceeds the per-line cap",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 10, Quantity: 10},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, Price: 2500, Stock: 500, Available: true,
				}, nil).Once()
				f.cartRepo.On("GetItem", mock.Anything, uint64(1), uint64(10)).Return(&model.CartItem{
					ProductID: 10, Quantity: 95, PriceSnapshot: 2500,
				}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: product lookup fails",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			args: args{
				ctx:     context.Background(),
				buyerID: 1,
				req:     &model.AddCartItemRequest{ProductID: 10, Quantity: 1},
			},
			mockCall: func(f fields) {
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appcart.NewCartApp(tt.fields.cartRepo, tt.fields.productRepo)

			got, err := app.AddToCart(tt.args.ctx, tt.args.buyerID, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddToCart() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
				return
			}

			if len(got.Items) != len(tt.want.Items) {
				t.Fatalf("AddToCart() items = %d, want %d", len(got.Items), len(tt.want.Items))
			}
			for i, item := range got.Items {
				if item != tt.want.Items[i] {
					t.Fatalf("AddToCart() item[%d] = %+v, want %+v", i, item, tt.want.Items[i])
				}
			}
		})
	}
}

func TestCartApp_UpdateCartItem(t *testing.T) {
	type fields struct {
		cartRepo    *cartmocks.CartRepository
		productRepo *productmocks.ProductRepository
	}
	tests := []struct {
		name     string
		fields   fields
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: quantity replaced, snapshot kept",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetItem", mock.Anything, uint64(1), uint64(10)).Return(&model.CartItem{
					ProductID: 10, Quantity: 3, PriceSnapshot: 2500,
				}, nil).Once()
				f.cartRepo.On("SetItem", mock.Anything, uint64(1), &model.CartItem{
					ProductID: 10, Quantity: 7, PriceSnapshot: 2500,
				}).Return(nil).Once()
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 7, PriceSnapshot: 2500},
				}, nil).Once()
			},
			wantErr: false,
		},
		{
			name: "error: item not in cart",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetItem", mock.Anything, uint64(1), uint64(10)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appcart.NewCartApp(tt.fields.cartRepo, tt.fields.productRepo)

			_, err := app.UpdateCartItem(context.Background(), 1, 10, &model.UpdateCartItemRequest{Quantity: 7})
			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateCartItem() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) {
					t.Fatalf("error type = %T, want CustomError", err)
				}
				if ce.ErrorCode() != constant.ErrorTypeCode[tt.errCode] {
					t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[tt.errCode])
				}
			}
		})
	}
}

func TestCartApp_ValidateCart(t *testing.T) {
	type fields struct {
		cartRepo    *cartmocks.CartRepository
		productRepo *productmocks.ProductRepository
	}
	tests := []struct {
		name         string
		fields       fields
		mockCall     func(f fields)
		wantValid    bool
		wantErrors   []model.CartIssue
		wantWarnings []model.CartIssue
		wantLines    []model.ValidatedLine
	}{
		{
			name: "valid cart with no drift",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 3, PriceSnapshot: 2500},
				}, nil).Once()
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 50, Available: true,
				}, nil).Once()
			},
			wantValid:    true,
			wantErrors:   []model.CartIssue{},
			wantWarnings: []model.CartIssue{},
			wantLines: []model.ValidatedLine{
				{ProductID: 10, SellerID: 2, Name: "tomatoes", Quantity: 3, UnitPrice: 2500, LineTotal: 7500, Available: true},
			},
		},
		{
			name: "empty cart is not checkout-ready",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{}, nil).Once()
			},
			wantValid:    false,
			wantErrors:   []model.CartIssue{{Reason: appcart.ReasonCartEmpty}},
			wantWarnings: []model.CartIssue{},
			wantLines:    []model.ValidatedLine{},
		},
		{
			name: "deleted product is an error line",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 3, PriceSnapshot: 2500},
				}, nil).Once()
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(nil, nil).Once()
			},
			wantValid:    false,
			wantErrors:   []model.CartIssue{{ProductID: 10, Reason: appcart.ReasonProductGone}},
			wantWarnings: []model.CartIssue{},
			wantLines:    []model.ValidatedLine{},
		},
		{
			name: "unavailable product is an error",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 3, PriceSnapshot: 2500},
				}, nil).Once()
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 50, Available: false,
				}, nil).Once()
			},
			wantValid:    false,
			wantErrors:   []model.CartIssue{{ProductID: 10, Reason: appcart.ReasonUnavailable}},
			wantWarnings: []model.CartIssue{},
			wantLines: []model.ValidatedLine{
				{ProductID: 10, SellerID: 2, Name: "tomatoes", Quantity: 3, UnitPrice: 2500, LineTotal: 7500, Available: false},
			},
		},
		{
			name: "requested quantity above stock is an error",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 8, PriceSnapshot: 2500},
				}, nil).Once()
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 5, Available: true,
				}, nil).Once()
			},
			wantValid:    false,
			wantErrors:   []model.CartIssue{{ProductID: 10, Reason: appcart.ReasonInsufficientStock}},
			wantWarnings: []model.CartIssue{},
			wantLines: []model.ValidatedLine{
				{ProductID: 10, SellerID: 2, Name: "tomatoes", Quantity: 8, UnitPrice: 2500, LineTotal: 20000, Available: false},
			},
		},
		{
			name: "price drift is a warning and the line carries the current price",
			fields: fields{
				cartRepo:    cartmocks.NewCartRepository(t),
				productRepo: productmocks.NewProductRepository(t),
			},
			mockCall: func(f fields) {
				f.cartRepo.On("GetCart", mock.Anything, uint64(1)).Return([]model.CartItem{
					{ProductID: 10, Quantity: 3, PriceSnapshot: 2000},
				}, nil).Once()
				f.productRepo.On("GetByID", mock.Anything, uint64(10)).Return(&model.ProductDetail{
					ID: 10, SellerID: 2, Name: "tomatoes", Price: 2500, Stock: 50, Available: true,
				}, nil).Once()
			},
			wantValid:    true,
			wantErrors:   []model.CartIssue{},
			wantWarnings: []model.CartIssue{{ProductID: 10, Reason: appcart.ReasonPriceChanged}},
			wantLines: []model.ValidatedLine{
				{ProductID: 10, SellerID: 2, Name: "tomatoes", Quantity: 3, UnitPrice: 2500, LineTotal: 7500, Available: true},
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if tt.mockCall != nil {
				tt.mockCall(tt.fields)
			}
			app := appcart.NewCartApp(tt.fields.cartRepo, tt.fields.productRepo)

			got, err := app.ValidateCart(context.Background(), 1)
			if err != nil {
				t.Fatalf("ValidateCart() error = %v", err)
			}

			if got.Valid != tt.wantValid {
				t.Fatalf("ValidateCart() valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if len(got.Errors) != len(tt.wantErrors) {
				t.Fatalf("ValidateCart() errors = %+v, want %+v", got.Errors, tt.wantErrors)
			}
			for i, issue := range got.Errors {
				if issue != tt.wantErrors[i] {
					t.Fatalf("ValidateCart() error[%d] = %+v, want %+v", i, issue, tt.wantErrors[i])
				}
			}
			if len(got.Warnings) != len(tt.wantWarnings) {
				t.Fatalf("ValidateCart() warnings = %+v, want %+v", got.Warnings, tt.wantWarnings)
			}
			for i, issue := range got.Warnings {
				if issue != tt.wantWarnings[i] {
					t.Fatalf("ValidateCart() warning[%d] = %+v, want %+v", i, issue, tt.wantWarnings[i])
				}
			}
			if len(got.Lines) != len(tt.wantLines) {
				t.Fatalf("ValidateCart() lines = %+v, want %+v", got.Lines, tt.wantLines)
			}
			for i, line := range got.Lines {
				if line != tt.wantLines[i] {
					t.Fatalf("ValidateCart() line[%d] = %+v, want %+v", i, line, tt.wantLines[i])
				}
			}
		})
	}
}
