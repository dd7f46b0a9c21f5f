package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/shopspring/decimal"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/requestdata"
  "github.com/krishikbazar/backend/internal/types"
)

type CartView struct {
  Order *types.Order       `json:"order"`
  Items []*types.OrderItem `json:"items"`
}

type CartService interface {
  GetCart(ctx context.Context) (*CartView, error)
  AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*CartView, error)
  UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error
  RemoveItem(ctx context.Context, itemID uuid.UUID) error
}

type cartService struct {
  db            *gorm.DB
  log           *logger.Logger
  orderRepo     repos.OrderRepo
  orderItemRepo repos.OrderItemRepo
  productRepo   repos.ProductRepo
}

func NewCartService(
  db *gorm.DB,
  log *logger.Logger,
  orderRepo repos.OrderRepo,
  orderItemRepo repos.OrderItemRepo,
  productRepo repos.ProductRepo,
) CartService {
  serviceLog := log.With("service", "CartService")
  return &cartService{
    db:            db,
    log:           serviceLog,
    orderRepo:     orderRepo,
    orderItemRepo: orderItemRepo,
    productRepo:   productRepo,
  }
}

func requireUser(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, ErrNotFound
  }
  return rd, nil
}

// recomputeTotal is the single source of truth for an order's total: a full
// scan over current line items, sum(quantity x captured price), persisted on
// the total_price column only. Never maintained incrementally.
func recomputeTotal(ctx context.Context, tx *gorm.DB, orderItemRepo repos.OrderItemRepo, orderRepo repos.OrderRepo, orderID uuid.UUID) (decimal.Decimal, error) {
  items, err := orderItemRepo.ListByOrderID(ctx, tx, orderID)
  if err != nil {
    return decimal.Zero, fmt.Errorf("Failed to list order items: %w", err)
  }
  total := decimal.Zero
  for _, item := range items {
    total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
  }
  if err := orderRepo.UpdateTotalPrice(ctx, tx, orderID, total); err != nil {
    return decimal.Zero, fmt.Errorf("Failed to update total price: %w", err)
  }
  return total, nil
}

func (cs *cartService) GetCart(ctx context.Context) (*CartView, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  order, err := cs.orderRepo.GetCartByUserID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get cart: %w", err)
  }
  if order == nil {
    return &CartView{Items: []*types.OrderItem{}}, nil
  }
  total, err := recomputeTotal(ctx, nil, cs.orderItemRepo, cs.orderRepo, order.ID)
  if err != nil {
    return nil, err
  }
  order.TotalPrice = total
  items, err := cs.orderItemRepo.ListByOrderID(ctx, nil, order.ID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list order items: %w", err)
  }
  return &CartView{Order: order, Items: items}, nil
}

func (cs *cartService) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*CartView, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  if quantity <= 0 {
    quantity = 1
  }

  var view CartView
  if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    product, err := cs.productRepo.GetByID(ctx, tx, productID)
    if err != nil {
      return fmt.Errorf("Failed to get product: %w", err)
    }
    if product == nil {
      return ErrNotFound
    }

    order, err := cs.orderRepo.GetCartByUserID(ctx, tx, rd.UserID)
    if err != nil {
      return fmt.Errorf("Failed to get cart: %w", err)
    }
    if order == nil {
      order = &types.Order{
        ID:         uuid.New(),
        UserID:     rd.UserID,
        Status:     types.OrderStatusCart,
        TotalPrice: decimal.Zero,
      }
      if _, err := cs.orderRepo.Create(ctx, tx, []*types.Order{order}); err != nil {
        return fmt.Errorf("Failed to create cart: %w", err)
      }
    }

    existing, err := cs.orderItemRepo.GetByOrderAndProduct(ctx, tx, order.ID, productID)
    if err != nil {
      return fmt.Errorf("Failed to get order item: %w", err)
    }
    requested := quantity
    if existing != nil {
      requested += existing.Quantity
    }
    if requested > product.Stock {
      return &InsufficientStockError{
        Message:   fmt.Sprintf("Cannot add %d. Only %d left in stock.", requested, product.Stock),
        Shortages: []StockShortage{{ProductName: product.Name, Available: product.Stock, Requested: requested}},
      }
    }
    if existing != nil {
      if err := cs.orderItemRepo.UpdateQuantity(ctx, tx, existing.ID, requested); err != nil {
        return fmt.Errorf("Failed to update order item: %w", err)
      }
    } else {
      item := &types.OrderItem{
        ID:        uuid.New(),
        OrderID:   order.ID,
        ProductID: productID,
        Quantity:  quantity,
        Price:     product.Price,
      }
      if _, err := cs.orderItemRepo.Create(ctx, tx, []*types.OrderItem{item}); err != nil {
        return fmt.Errorf("Failed to create order item: %w", err)
      }
    }

    total, err := recomputeTotal(ctx, tx, cs.orderItemRepo, cs.orderRepo, order.ID)
    if err != nil {
      return err
    }
    order.TotalPrice = total
    items, err := cs.orderItemRepo.ListByOrderID(ctx, tx, order.ID)
    if err != nil {
      return fmt.Errorf("Failed to list order items: %w", err)
    }
    view = CartView{Order: order, Items: items}
    return nil
  }); err != nil {
    return nil, err
  }
  return &view, nil
}

// getCartItemForUser resolves an item id to a line item of the caller's own
// cart-status order. Anything else reads as not found.
func (cs *cartService) getCartItemForUser(ctx context.Context, tx *gorm.DB, itemID, userID uuid.UUID) (*types.OrderItem, error) {
  item, err := cs.orderItemRepo.GetByID(ctx, tx, itemID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get order item: %w", err)
  }
  if item == nil || item.Order == nil {
    return nil, ErrNotFound
  }
  if item.Order.UserID != userID || item.Order.Status != types.OrderStatusCart {
    return nil, ErrNotFound
  }
  return item, nil
}

func (cs *cartService) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) error {
  rd, err := requireUser(ctx)
  if err != nil {
    return err
  }
  return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    item, err := cs.getCartItemForUser(ctx, tx, itemID, rd.UserID)
    if err != nil {
      return err
    }

    if quantity <= 0 {
      // Zero or negative quantity means removal, not an error. Removal asks
      // nothing of the catalog, so it still works after the product has been
      // deleted; otherwise the orphan item would block checkout forever.
      if err := cs.orderItemRepo.Delete(ctx, tx, item.ID); err != nil {
        return fmt.Errorf("Failed to delete order item: %w", err)
      }
      _, err := recomputeTotal(ctx, tx, cs.orderItemRepo, cs.orderRepo, item.OrderID)
      return err
    }

    if item.Product == nil {
      // Product vanished from the catalog while sitting in the cart.
      return ErrNotFound
    }

    var rejection error
    if quantity > item.Product.Stock {
      rejection = &InsufficientStockError{
        Message:   fmt.Sprintf("Cannot add %d. Only %d left in stock.", quantity, item.Product.Stock),
        Shortages: []StockShortage{{ProductName: item.Product.Name, Available: item.Product.Stock, Requested: quantity}},
      }
    } else {
      if err := cs.orderItemRepo.UpdateQuantity(ctx, tx, item.ID, quantity); err != nil {
        return fmt.Errorf("Failed to update order item: %w", err)
      }
    }

    // Recompute runs on the rejection branch too; against unchanged items it
    // is a price no-op but keeps the flow uniform.
    if _, err := recomputeTotal(ctx, tx, cs.orderItemRepo, cs.orderRepo, item.OrderID); err != nil {
      return err
    }
    return rejection
  })
}

func (cs *cartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
  rd, err := requireUser(ctx)
  if err != nil {
    return err
  }
  return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    item, err := cs.getCartItemForUser(ctx, tx, itemID, rd.UserID)
    if err != nil {
      return err
    }
    if err := cs.orderItemRepo.Delete(ctx, tx, item.ID); err != nil {
      return fmt.Errorf("Failed to delete order item: %w", err)
    }
    if _, err := recomputeTotal(ctx, tx, cs.orderItemRepo, cs.orderRepo, item.OrderID); err != nil {
      return err
    }
    return nil
  })
}
