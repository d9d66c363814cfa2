package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/repos"
	"github.com/facesocial/facesocial-backend/internal/types"
	"github.com/facesocial/facesocial-backend/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	FaceLogin(ctx context.Context, faceImage string) (*AuthResult, error)
	CheckDuplicate(ctx context.Context, field, value string) (bool, error)
	GenerateToken(user *types.User) (string, error)
	VerifyToken(tokenString string) (*types.TokenClaims, error)
}

type RegisterInput struct {
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	FaceImages []string `json:"faceImages"`
}

type AuthResult struct {
	Token string
	User  *types.User
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	faceAI        FaceAIClient
	faceMatch     FaceMatchService
	avatarService AvatarService
	jwtSecretKey  []byte
	tokenTTL      time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	faceAI FaceAIClient,
	faceMatch FaceMatchService,
	avatarService AvatarService,
	jwtSecretKey string,
	tokenTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		faceAI:        faceAI,
		faceMatch:     faceMatch,
		avatarService: avatarService,
		jwtSecretKey:  []byte(jwtSecretKey),
		tokenTTL:      tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user := &types.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	utils.NormalizeUserFields(user)

	if vErr := validateRegistration(user); vErr != nil {
		return nil, vErr
	}

	usernameTaken, err := as.userRepo.UsernameExists(ctx, nil, user.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	emailTaken, err := as.userRepo.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if usernameTaken || emailTaken {
		return nil, ErrDuplicateUser
	}

	if hErr := utils.HashPassword(user); hErr != nil {
		return nil, hErr
	}

	// Embedding acquisition is best effort: a failed image is dropped and
	// registration continues, possibly with no biometric capability at all.
	embeddings := as.acquireEmbeddings(ctx, input.FaceImages)
	if err := user.SetEmbeddingVectors(embeddings); err != nil {
		return nil, fmt.Errorf("error encoding face embeddings: %w", err)
	}

	user.ID = uuid.New()

	if as.avatarService != nil {
		avatarPath, avErr := as.avatarService.CreateUserAvatar(ctx, user)
		if avErr != nil {
			as.log.Warn("Avatar generation failed, registering without avatar", "error", avErr)
		} else {
			user.AvatarPath = avatarPath
		}
	}

	if _, cErr := as.userRepo.Create(ctx, nil, []*types.User{user}); cErr != nil {
		return nil, fmt.Errorf("error creating user: %w", cErr)
	}

	token, tErr := as.GenerateToken(user)
	if tErr != nil {
		return nil, tErr
	}
	as.log.Info("User registered", "user_id", user.ID, "has_face_recognition", user.HasFaceRecognition())
	return &AuthResult{Token: token, User: user}, nil
}

// acquireEmbeddings requests one embedding per submitted image, concurrently.
// Failures are logged and skipped; the returned slice keeps submission order.
func (as *authService) acquireEmbeddings(ctx context.Context, images []string) [][]float64 {
	if len(images) == 0 {
		return nil
	}

	results := make([][]float64, len(images))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, image := range images {
		g.Go(func() error {
			res, err := as.faceAI.Embeddings(gctx, image)
			if err != nil {
				as.log.Warn("Embedding acquisition failed for one image", "index", i, "error", err)
				return nil
			}
			mu.Lock()
			results[i] = res.Embedding
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	valid := make([][]float64, 0, len(results))
	for _, emb := range results {
		if len(emb) > 0 {
			valid = append(valid, emb)
		}
	}
	return valid
}

func (as *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	users, err := as.userRepo.GetByUsernames(ctx, nil, []string{username})
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrInvalidCredentials
	}
	user := users[0]

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, tErr := as.GenerateToken(user)
	if tErr != nil {
		return nil, tErr
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (as *authService) FaceLogin(ctx context.Context, faceImage string) (*AuthResult, error) {
	if faceImage == "" {
		vErr := newValidationError()
		vErr.Fields["faceImage"] = "required"
		return nil, vErr
	}

	// Unlike registration, a failed acquisition here is fatal: with no
	// fresh embedding there is nothing to match against.
	embRes, err := as.faceAI.Embeddings(ctx, faceImage)
	if err != nil {
		var statusErr *FaceAIStatusError
		if errors.As(err, &statusErr) {
			return nil, ErrBadFaceImage
		}
		return nil, fmt.Errorf("error processing face image: %w", err)
	}

	match, err := as.faceMatch.MatchEmbedding(ctx, embRes.Embedding)
	if err != nil {
		return nil, fmt.Errorf("error matching face: %w", err)
	}
	if match == nil {
		return nil, ErrFaceNotRecognized
	}

	token, tErr := as.GenerateToken(match.User)
	if tErr != nil {
		return nil, tErr
	}
	as.log.Info("Face login succeeded", "user_id", match.User.ID, "confidence", match.Confidence)
	return &AuthResult{Token: token, User: match.User}, nil
}

func (as *authService) CheckDuplicate(ctx context.Context, field, value string) (bool, error) {
	switch field {
	case "username":
		return as.userRepo.UsernameExists(ctx, nil, value)
	case "email":
		return as.userRepo.EmailExists(ctx, nil, value)
	default:
		vErr := newValidationError()
		vErr.Fields["field"] = "must be username or email"
		return false, vErr
	}
}

func (as *authService) GenerateToken(user *types.User) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken folds every failure mode, malformed and expired alike, into
// ErrInvalidToken.
func (as *authService) VerifyToken(tokenString string) (*types.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &types.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*types.TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func validateRegistration(user *types.User) error {
	vErr := newValidationError()
	if len(user.Username) < 3 || len(user.Username) > 30 {
		vErr.Fields["username"] = "must be between 3 and 30 characters"
	}
	if !utils.ValidEmail(user.Email) {
		vErr.Fields["email"] = "must be a valid email address"
	}
	if len(user.Password) < 8 {
		vErr.Fields["password"] = "must be at least 8 characters"
	}
	if user.FirstName == "" {
		vErr.Fields["firstName"] = "required"
	}
	if user.LastName == "" {
		vErr.Fields["lastName"] = "required"
	}
	if len(vErr.Fields) > 0 {
		return vErr
	}
	return nil
}
