package request

type AddItem struct {
	ProductID string `json:"productId" validate:"required"`
}

type UpdateQuantity struct {
	Quantity int `json:"quantity"`
}
