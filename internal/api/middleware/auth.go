package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/courtflow/CourtFlow-BookingService/internal/api/handlers"
)

// Заголовки identity, проставляемые API gateway после аутентификации;
// сервис доверяет им. Email опционален: не все пользователи его подтвердили
const (
	userIDHeader    = "X-User-ID"
	userEmailHeader = "X-User-Email"
)

type userIDCtxKey struct{}
type userEmailCtxKey struct{}

// Auth middleware извлекает user ID из заголовка X-User-ID и кладет его в контекст
// Запросы без валидного заголовка отклоняются с 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(userIDHeader)
		if header == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDCtxKey{}, userID)
		if email := r.Header.Get(userEmailHeader); email != "" {
			ctx = context.WithValue(ctx, userEmailCtxKey{}, email)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает user ID из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDCtxKey{}).(int64)
	return userID, ok
}

// GetUserEmail извлекает email пользователя из контекста запроса
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailCtxKey{}).(string)
	return email, ok
}
