package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anoixa/postboard/config"
	"github.com/anoixa/postboard/database/repo/accounts"
	"github.com/anoixa/postboard/internal/app"
	"github.com/anoixa/postboard/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/spf13/cobra"
)

// userCmd 用户管理
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Example: `  postboard user create --name Alice --email alice@example.com --password secret123
  postboard user create --name Root --email root@example.com --password secret123 --admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")

		input := auth.RegisterInput{Name: name, Email: email, Password: password}
		if err := validateInput(input); err != nil {
			return err
		}

		return withAuthService(func(ctx context.Context, svc *auth.Service) error {
			create := svc.Register
			if admin {
				create = svc.CreateAdmin
			}
			user, err := create(ctx, input)
			if errors.Is(err, auth.ErrEmailTaken) {
				return fmt.Errorf("email %s is already registered", email)
			}
			if err != nil {
				return err
			}
			log.Printf("User %s created (id=%s, admin=%t)", user.Email, user.ID, admin)
			return nil
		})
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Reset a user's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if err := validateInput(auth.RegisterInput{Name: "cli", Email: email, Password: password}); err != nil {
			return err
		}

		return withAuthService(func(ctx context.Context, svc *auth.Service) error {
			err := svc.ChangePassword(ctx, email, password)
			switch {
			case errors.Is(err, accounts.ErrUserNotFound):
				return fmt.Errorf("no user with email %s", email)
			case errors.Is(err, accounts.ErrVersionConflict):
				return fmt.Errorf("user %s was modified concurrently, retry", email)
			case err != nil:
				return err
			}
			log.Printf("Password updated for %s", email)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd, userPasswdCmd)

	userCreateCmd.Flags().String("name", "", "Display name")
	userCreateCmd.Flags().String("email", "", "Email address (login)")
	userCreateCmd.Flags().String("password", "", "Password (min 6 characters)")
	userCreateCmd.Flags().Bool("admin", false, "Also grant the Admin role")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userPasswdCmd.Flags().String("email", "", "Email address of the user")
	userPasswdCmd.Flags().String("password", "", "New password (min 6 characters)")
	_ = userPasswdCmd.MarkFlagRequired("email")
	_ = userPasswdCmd.MarkFlagRequired("password")
}

// withAuthService 初始化数据库与认证服务后执行 fn
func withAuthService(fn func(ctx context.Context, svc *auth.Service) error) error {
	config.InitConfig()
	cfg := config.Get()

	container := app.NewContainer(cfg)
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	return fn(ctx, container.AuthService)
}

// validateInput 复用 HTTP 层的 binding 规则校验命令行输入
func validateInput(input auth.RegisterInput) error {
	v := validator.New()
	v.SetTagName("binding")
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}

	if err := v.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Param() != "" {
				return fmt.Errorf("invalid --%s: %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("invalid --%s: %s", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}
