package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/krishikbazar/backend/internal/logger"
  "github.com/krishikbazar/backend/internal/repos"
  "github.com/krishikbazar/backend/internal/types"
  "github.com/krishikbazar/backend/internal/utils"
)

type CheckoutInput struct {
  ShippingAddress string
  PaymentMethod   string
}

type OrderView struct {
  Order *types.Order       `json:"order"`
  Items []*types.OrderItem `json:"items"`
}

type OrderService interface {
  GetCheckout(ctx context.Context) (*OrderView, error)
  Checkout(ctx context.Context, input CheckoutInput) (*types.Order, error)
  CancelOrder(ctx context.Context, orderID uuid.UUID) error
  GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error)
  ListOrders(ctx context.Context) ([]*types.Order, error)
}

type orderService struct {
  db            *gorm.DB
  log           *logger.Logger
  orderRepo     repos.OrderRepo
  orderItemRepo repos.OrderItemRepo
  productRepo   repos.ProductRepo
}

func NewOrderService(
  db *gorm.DB,
  log *logger.Logger,
  orderRepo repos.OrderRepo,
  orderItemRepo repos.OrderItemRepo,
  productRepo repos.ProductRepo,
) OrderService {
  serviceLog := log.With("service", "OrderService")
  return &orderService{
    db:            db,
    log:           serviceLog,
    orderRepo:     orderRepo,
    orderItemRepo: orderItemRepo,
    productRepo:   productRepo,
  }
}

// GetCheckout loads the caller's cart for the checkout form, recomputing the
// total before it is shown.
func (osv *orderService) GetCheckout(ctx context.Context) (*OrderView, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  order, err := osv.orderRepo.GetCartByUserID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get cart: %w", err)
  }
  if order == nil {
    return nil, ErrEmptyCart
  }
  items, err := osv.orderItemRepo.ListByOrderID(ctx, nil, order.ID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list order items: %w", err)
  }
  if len(items) == 0 {
    return nil, ErrEmptyCart
  }
  total, err := recomputeTotal(ctx, nil, osv.orderItemRepo, osv.orderRepo, order.ID)
  if err != nil {
    return nil, err
  }
  order.TotalPrice = total
  return &OrderView{Order: order, Items: items}, nil
}

// Checkout runs the whole stock gate and commit inside one transaction.
// Either every product row is decremented and the order moves to pending, or
// nothing changes at all. The guarded per-row decrement keeps concurrent
// checkouts from jointly overdrawing stock: whoever loses the race sees zero
// rows affected and the transaction rolls back.
func (osv *orderService) Checkout(ctx context.Context, input CheckoutInput) (*types.Order, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }

  shippingAddress := utils.ParseInputString(input.ShippingAddress)
  paymentMethod := utils.ParseInputString(input.PaymentMethod)

  var placed *types.Order
  if err := osv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    order, err := osv.orderRepo.GetCartByUserID(ctx, tx, rd.UserID)
    if err != nil {
      return fmt.Errorf("Failed to get cart: %w", err)
    }
    if order == nil {
      return ErrEmptyCart
    }
    items, err := osv.orderItemRepo.ListByOrderID(ctx, tx, order.ID)
    if err != nil {
      return fmt.Errorf("Failed to list order items: %w", err)
    }
    if len(items) == 0 {
      return ErrEmptyCart
    }

    // Payment stays simulated: both fields must be present, nothing more.
    if shippingAddress == "" || paymentMethod == "" {
      return ErrMissingFields
    }

    var shortages []StockShortage
    for _, item := range items {
      available := 0
      name := item.ProductID.String()
      if item.Product != nil {
        available = item.Product.Stock
        name = item.Product.Name
      }
      if item.Quantity > available {
        shortages = append(shortages, StockShortage{
          ProductName: name,
          Available:   available,
          Requested:   item.Quantity,
        })
      }
    }
    if len(shortages) > 0 {
      return &InsufficientStockError{Shortages: shortages}
    }

    for _, item := range items {
      ok, err := osv.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
      if err != nil {
        return fmt.Errorf("Failed to decrement stock: %w", err)
      }
      if !ok {
        // Lost a race since the gate above: re-read and report, then roll
        // the whole checkout back.
        name := item.ProductID.String()
        available := 0
        if product, perr := osv.productRepo.GetByID(ctx, tx, item.ProductID); perr == nil && product != nil {
          name = product.Name
          available = product.Stock
        }
        return &InsufficientStockError{Shortages: []StockShortage{{
          ProductName: name,
          Available:   available,
          Requested:   item.Quantity,
        }}}
      }
    }

    if err := osv.orderRepo.UpdateFields(ctx, tx, order.ID, map[string]interface{}{
      "status":           types.OrderStatusPending,
      "shipping_address": shippingAddress,
      "payment_method":   paymentMethod,
    }); err != nil {
      return fmt.Errorf("Failed to update order: %w", err)
    }
    total, err := recomputeTotal(ctx, tx, osv.orderItemRepo, osv.orderRepo, order.ID)
    if err != nil {
      return err
    }
    order.Status = types.OrderStatusPending
    order.ShippingAddress = shippingAddress
    order.PaymentMethod = paymentMethod
    order.TotalPrice = total
    placed = order
    return nil
  }); err != nil {
    return nil, err
  }

  osv.log.Info("Order placed", "order_id", placed.ID, "total", placed.TotalPrice)
  return placed, nil
}

// CancelOrder mirrors the checkout commit: stock restoration and the status
// change share one transaction, so a crash cannot leave stock restored on a
// still-pending order.
func (osv *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
  rd, err := requireUser(ctx)
  if err != nil {
    return err
  }
  if err := osv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    order, err := osv.orderRepo.GetByIDAndUserID(ctx, tx, orderID, rd.UserID)
    if err != nil {
      return fmt.Errorf("Failed to get order: %w", err)
    }
    if order == nil {
      return ErrNotFound
    }
    if order.Status != types.OrderStatusPending {
      return ErrNotPendingOrder
    }
    items, err := osv.orderItemRepo.ListByOrderID(ctx, tx, order.ID)
    if err != nil {
      return fmt.Errorf("Failed to list order items: %w", err)
    }
    for _, item := range items {
      if err := osv.productRepo.IncrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
        return fmt.Errorf("Failed to restore stock: %w", err)
      }
    }
    if err := osv.orderRepo.UpdateFields(ctx, tx, order.ID, map[string]interface{}{
      "status": types.OrderStatusCancelled,
    }); err != nil {
      return fmt.Errorf("Failed to update order: %w", err)
    }
    return nil
  }); err != nil {
    return err
  }

  osv.log.Info("Order cancelled", "order_id", orderID)
  return nil
}

func (osv *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderView, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  order, err := osv.orderRepo.GetByIDAndUserID(ctx, nil, orderID, rd.UserID)
  if err != nil {
    return nil, fmt.Errorf("Failed to get order: %w", err)
  }
  if order == nil {
    return nil, ErrNotFound
  }
  items, err := osv.orderItemRepo.ListByOrderID(ctx, nil, order.ID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list order items: %w", err)
  }
  return &OrderView{Order: order, Items: items}, nil
}

func (osv *orderService) ListOrders(ctx context.Context) ([]*types.Order, error) {
  rd, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  orders, err := osv.orderRepo.ListByUserID(ctx, nil, rd.UserID, true)
  if err != nil {
    return nil, fmt.Errorf("Failed to list orders: %w", err)
  }
  return orders, nil
}
