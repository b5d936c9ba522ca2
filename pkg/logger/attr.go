package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", keyed by position.
// It returns an empty Attr when every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error", or returns an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the signed in user. Empty for nil or "".
func UserID(id any) slog.Attr {
	if id == nil || id == "" {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

func ReservationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("reservation_id", id)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Step records the wizard step a record belongs to.
func Step(name string) slog.Attr {
	return slog.String("step", name)
}

// Area records a data area such as "reservations" or "payments".
func Area(name string) slog.Attr {
	return slog.String("area", name)
}

func Field(name string) slog.Attr {
	return slog.String("field", name)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
