package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func paramUint(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("Missing " + name)
	}

	value, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + name)
	}

	return uint(value), nil
}

func GetClubID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "club_id")
}

func GetMembershipID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "membership_id")
}

func GetRequestID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "request_id")
}

func GetEventID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "event_id")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return paramUint(ctx, "user_id")
}
