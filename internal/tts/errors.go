package tts

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText = errors.New("пустой текст для синтеза")
	ErrTransport = errors.New("ошибка транспорта")
	ErrStatus    = errors.New("неожиданный HTTP статус")
	ErrAPI       = errors.New("ошибка TTS API")
	ErrProtocol  = errors.New("некорректный ответ TTS API")
	ErrDownload  = errors.New("ошибка скачивания аудио")
)

// TransportError возникает, когда HTTP обмен не завершился
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ошибка выполнения запроса: %v", e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// StatusError возникает, когда сервис вернул статус отличный от 200
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("TTS API вернул статус %d", e.StatusCode)
	}
	return fmt.Sprintf("TTS API вернул статус %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// APIError возникает, когда сервис ответил 200, но success=false
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TTS API вернул ошибку: %s", e.Message)
}

func (e *APIError) Unwrap() error { return ErrAPI }

// ProtocolError возникает, когда ответ не соответствует ожидаемому формату
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProtocolError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProtocol, e.Err}
	}
	return []error{ErrProtocol}
}

// Kind возвращает категорию ошибки для метрик
func Kind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyText):
		return "validation"
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "http_status"
	case errors.Is(err, ErrAPI):
		return "api_error"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	default:
		return "unknown"
	}
}
