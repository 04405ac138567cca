package handlers

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
// (валидация параметров монитора, отсутствующий подписчик, сбой исполнения
// хеджа и т.д.)
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse стандартный формат успешного ответа
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
