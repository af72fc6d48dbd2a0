package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/user"
	usermemory "github.com/geodateam/team-presence/internal/user/memory"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		users   *usermemory.UserRepository
		service *auth.Service
	)

	validRegistration := func() auth.RegisterDTO {
		return auth.RegisterDTO{
			Email:    "mara@example.com",
			Password: "correct-horse-battery",
			Name:     "Mara",
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		users = usermemory.NewUserRepository()
		tokenGen := auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(users, tokenGen, bcrypt.MinCost, slog.Default())
	})

	Describe("Register", func() {
		It("creates an employee account and issues tokens", func() {
			u, tokens, err := service.Register(ctx, validRegistration())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).NotTo(BeEmpty())
			Expect(u.Role).To(Equal(user.RoleEmployee))
			Expect(u.PasswordHash).NotTo(Equal("correct-horse-battery"))
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("rejects a duplicate email", func() {
			_, _, err := service.Register(ctx, validRegistration())
			Expect(err).NotTo(HaveOccurred())

			_, _, err = service.Register(ctx, validRegistration())
			Expect(err).To(MatchError(user.ErrEmailTaken))
		})

		It("rejects a short password", func() {
			dto := validRegistration()
			dto.Password = "short"
			_, _, err := service.Register(ctx, dto)
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
		})

		It("rejects an email without an at sign", func() {
			dto := validRegistration()
			dto.Email = "not-an-email"
			_, _, err := service.Register(ctx, dto)
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, _, err := service.Register(ctx, validRegistration())
			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts the registered credentials", func() {
			u, tokens, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "mara@example.com",
				Password: "correct-horse-battery",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("mara@example.com"))
			Expect(tokens.AccessToken).NotTo(BeEmpty())
		})

		It("rejects a wrong password", func() {
			_, _, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "mara@example.com",
				Password: "wrong-password",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("hides whether the email exists", func() {
			_, _, err := service.Authenticate(ctx, auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "whatever-password",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips claims through a signed token", func() {
			u, tokens, err := service.Register(ctx, validRegistration())
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(u.ID))
			Expect(claims.Email).To(Equal(u.Email))
		})

		It("rejects garbage", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewJWTTokenGenerator(
				"some-other-access-secret-0123456789",
				"some-other-refresh-secret-012345678",
				15*time.Minute,
				7*24*time.Hour,
			)
			token, err := other.GenerateAccessToken("u1", "x@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})
})
