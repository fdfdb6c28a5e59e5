package utils

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/spf13/viper"
)

// IsEmpty checks if a string is empty.
func IsEmpty(s string) bool {
	return s == ""
}

func GetTraceID(c *gin.Context) (string, error) {
	traceID := c.GetString(pkg.TraceId)
	if IsEmpty(traceID) {
		return "", errors.New("trace id is empty")
	}
	return traceID, nil
}

// ParseIDParam reads a positive integer path parameter such as ":id".
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkg.NewInvalidInputError("invalid "+name+" path parameter", err)
	}
	return id, nil
}

// ParseStructEnv binds env vars to struct fields using a mapstructure tag
func ParseStructEnv(v *viper.Viper, cfg interface{}) error {
	t := reflect.ValueOf(cfg).Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if IsEmpty(tag) || tag == "-" {
			continue
		}
		if err := v.BindEnv(tag); err != nil {
			return err
		}
	}
	return v.Unmarshal(cfg)
}
