package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ord "github.com/MikeMC777/ordenes-dashboard/internal/order"
)

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ord.HTTPError{Message: "invalid order id"})
		return 0, false
	}
	return id, true
}

// listOrdersHandler godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200 {array}  order.Order
// @Failure      500 {object} order.HTTPError
// @Router       /orders [get]
func listOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repo.List(c.Request.Context())
		if err != nil {
			log.Printf("[order-api] list: %v", err)
			c.JSON(http.StatusInternalServerError, ord.HTTPError{Message: "could not list orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// getOrderHandler godoc
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Param        id  path int true "order id"
// @Success      200 {object} order.Order
// @Failure      400 {object} order.HTTPError
// @Failure      404 {object} order.HTTPError
// @Router       /orders/{id} [get]
func getOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, ord.HTTPError{Message: "order not found"})
				return
			}
			log.Printf("[order-api] get id=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, ord.HTTPError{Message: "could not load order"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// replaceOrderHandler godoc
// @Summary      Replace an order
// @Description  Full replacement. The id comes from the path and createdAt is kept from the stored record.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path int         true "order id"
// @Param        order body order.Order true "complete order"
// @Success      200 {object} order.Order
// @Failure      400 {object} order.HTTPError
// @Failure      404 {object} order.HTTPError
// @Router       /orders/{id} [put]
func replaceOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var body ord.Order
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, ord.HTTPError{Message: "invalid json"})
			return
		}
		if msg := validateOrder(body); msg != "" {
			c.JSON(http.StatusBadRequest, ord.HTTPError{Message: msg})
			return
		}
		body.ID = id

		if err := repo.Replace(c.Request.Context(), &body); err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, ord.HTTPError{Message: "order not found"})
				return
			}
			log.Printf("[order-api] replace id=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, ord.HTTPError{Message: "could not update order"})
			return
		}
		log.Printf("[order-api] order %d now %s", id, body.Status)
		c.JSON(http.StatusOK, body)
	}
}

func validateOrder(o ord.Order) string {
	if o.CustomerName == "" {
		return "customerName is required"
	}
	if !o.Status.Valid() {
		return "status must be one of Pending, Processing, Delivered, Cancelled"
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return "item quantity must be positive"
		}
	}
	return ""
}
