package validate

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 日期与时间的文本格式
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var registerOnce sync.Once

// Register 向 gin 的绑定校验器注册自定义规则：
//
//	ymd  — YYYY-MM-DD 日期
//	hhmm — 24 小时制 HH:MM 时间
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("gin 绑定引擎不是 validator/v10")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn 在指定校验器上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("ymd", layoutRule(DateLayout)); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", layoutRule(TimeLayout))
}

func layoutRule(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(layout) {
			return false
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}
