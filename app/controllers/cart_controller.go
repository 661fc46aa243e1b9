package controllers

import (
	"errors"
	"net/http"

	"github.com/trancendwear/trancend/app/models"
	"github.com/trancendwear/trancend/app/services"
	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/bind"
	"github.com/trancendwear/trancend/pkg/response"
)

type CartController struct{}

func NewCartController() *CartController {
	return &CartController{}
}

type cartView struct {
	Lines   []models.Line `json:"lines"`
	Total   float64       `json:"total"`
	Count   int           `json:"count"`
	Syncing bool          `json:"syncing"`
}

func viewOf(rt *runtime.Runtime) cartView {
	return cartView{
		Lines:   rt.Cart.Lines(),
		Total:   rt.Cart.Total(),
		Count:   rt.Cart.Count(),
		Syncing: rt.Cart.Syncing(),
	}
}

// Show returns the session's cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	response.Success(w, viewOf(runtime.FromCtx(r)))
}

type addInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"nullable,gte=1,lte=99"`
}

// Add puts a product into the cart. The product must resolve (backend or
// seed); the color must be one the product offers.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in addInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rt := runtime.FromCtx(r)
	product := rt.Catalog.Product(in.ProductID)
	if product == nil {
		response.NotFound(w)
		return
	}

	var color *models.Color
	if in.Color != "" {
		for i := range product.Colors {
			if product.Colors[i].Name == in.Color {
				color = &product.Colors[i]
				break
			}
		}
		if color == nil {
			response.Error(w, http.StatusUnprocessableEntity, "unknown color for this product")
			return
		}
	}

	rt.Cart.Add(*product, color, in.Size, in.Quantity)
	response.Success(w, viewOf(rt))
}

type quantityInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"lte=99"`
}

// UpdateQuantity replaces a line's quantity; zero or less removes it.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var in quantityInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rt := runtime.FromCtx(r)
	rt.Cart.SetQuantity(in.ProductID, in.Size, in.Color, in.Quantity)
	response.Success(w, viewOf(rt))
}

// Remove deletes a line, addressed by its uniqueness key in query
// parameters: ?product_id=&size=&color=.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("product_id") == "" {
		response.Error(w, http.StatusBadRequest, "product_id is required")
		return
	}

	rt := runtime.FromCtx(r)
	rt.Cart.Remove(q.Get("product_id"), q.Get("size"), q.Get("color"))
	response.Success(w, viewOf(rt))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	rt.Cart.Clear()
	response.Success(w, viewOf(rt))
}

type checkoutInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required,min=10"`
}

// Checkout submits the cart as a pending order and empties it on
// success. Submission is never retried; failures surface to the client.
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in checkoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rt := runtime.FromCtx(r)
	if rt.Cart.Count() == 0 {
		response.Error(w, http.StatusUnprocessableEntity, "cart is empty")
		return
	}

	order, err := rt.Orders.Create(rt.Cart.Lines(), rt.Cart.Total(), in.ShippingAddress)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, upstreamStatus(err), err.Error())
		return
	}

	rt.Cart.Clear()
	response.Created(w, order)
}
