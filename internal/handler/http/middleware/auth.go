package middleware

import (
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Missing access token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid access token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid access token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFromContext extracts the authenticated employee from the verified
// token claims. Handlers behind AuthRequired can assume the claims exist.
func ActorFromContext(r *http.Request) (employee.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return employee.Actor{}, false
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return employee.Actor{}, false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return employee.Actor{}, false
	}

	return employee.Actor{EmployeeID: employeeID, Role: employee.Role(roleStr)}, true
}

// RequireHR requires the HR or admin role.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r)
		if !ok || !actor.Role.CanActAsHR() {
			response.Forbidden(w, "HR access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
