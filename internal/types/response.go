package types

// Response is the envelope written by every handler.
type Response struct {
	Type   string       `json:"type"`
	Msg    string       `json:"msg"`
	Data   any          `json:"data,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func Success(msg string, data any) Response {
	return Response{Type: ResponseSuccess, Msg: msg, Data: data}
}

func Message(msg string) Response {
	return Response{Type: ResponseSuccess, Msg: msg}
}

func Failure(msg string, fields []FieldError) Response {
	return Response{Type: ResponseError, Msg: msg, Fields: fields}
}

// TokenData is the payload of register, login and profile update.
type TokenData struct {
	AccessToken string `json:"access_token"`
}
