package controllers

import (
	"net/http"

	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/response"
)

type OrdersController struct{}

func NewOrdersController() *OrdersController {
	return &OrdersController{}
}

// Index lists the session identity's orders newest-first; anonymous
// sessions get an empty list.
func (c *OrdersController) Index(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, rt.Orders.ListForCurrentUser())
}
