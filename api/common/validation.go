package common

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("[Validator] gin validator engine is not go-playground/validator, custom rules skipped")
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			log.Printf("[Validator] Failed to register notblank: %v", err)
		}
	})
}
