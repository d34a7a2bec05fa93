// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Sheila49/paket1-ukk-be/model"
	pjmsvc "github.com/Sheila49/paket1-ukk-be/service/peminjaman"
	gmbsvc "github.com/Sheila49/paket1-ukk-be/service/pengembalian"
)

// UserIDFromContext reads the user id set by the auth middleware.
func UserIDFromContext(c echo.Context) (int64, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id <= 0 {
		return 0, errors.New("no user id in context")
	}
	return id, nil
}

func RoleFromContext(c echo.Context) model.Role {
	role, _ := c.Get("role").(string)
	return model.Role(role)
}

// ActorFromContext builds the loan-command caller identity.
func ActorFromContext(c echo.Context) (pjmsvc.Actor, error) {
	id, err := UserIDFromContext(c)
	if err != nil {
		return pjmsvc.Actor{}, err
	}
	return pjmsvc.Actor{ID: id, Role: RoleFromContext(c)}, nil
}

// ReturnActorFromContext builds the return-command caller identity.
func ReturnActorFromContext(c echo.Context) (gmbsvc.Actor, error) {
	id, err := UserIDFromContext(c)
	if err != nil {
		return gmbsvc.Actor{}, err
	}
	return gmbsvc.Actor{ID: id, Role: RoleFromContext(c)}, nil
}
