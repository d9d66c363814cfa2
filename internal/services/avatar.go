package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/facesocial/facesocial-backend/internal/platform/logger"
	"github.com/facesocial/facesocial-backend/internal/types"
)

const avatarSize = 512

// AvatarService renders an initials avatar for a new user and stores it
// under the local media directory served at /uploads.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, user *types.User) (string, error)
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
	palette  []color.NRGBA
}

func NewAvatarService(log *logger.Logger, mediaDir string) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: 206})

	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create avatar directory: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
		palette: []color.NRGBA{
			{R: 0x2E, G: 0x86, B: 0xDE, A: 0xFF},
			{R: 0x10, G: 0xAC, B: 0x84, A: 0xFF},
			{R: 0xEE, G: 0x52, B: 0x53, A: 0xFF},
			{R: 0xF3, G: 0x9C, B: 0x12, A: 0xFF},
			{R: 0x8E, G: 0x44, B: 0xAD, A: 0xFF},
			{R: 0x57, G: 0x65, B: 0x74, A: 0xFF},
		},
	}, nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) (string, error) {
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return "", err
	}

	relPath := filepath.Join("avatars", user.ID.String()+".png")
	fullPath := filepath.Join(as.mediaDir, relPath)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("could not write avatar file: %w", err)
	}

	as.log.Debug("Avatar generated", "user_id", user.ID, "path", relPath)
	return "/uploads/" + filepath.ToSlash(relPath), nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.SetColor(as.BackgroundColor(user.Username))
	dc.Clear()

	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials(user), avatarSize/2, avatarSize/2, 0.5, 0.5)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("could not encode avatar png: %w", err)
	}
	return buf, nil
}

// BackgroundColor is deterministic per username so regeneration keeps the
// same color.
func (as *avatarService) BackgroundColor(username string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func initials(user *types.User) string {
	var b strings.Builder
	if user.FirstName != "" {
		b.WriteString(strings.ToUpper(user.FirstName[:1]))
	}
	if user.LastName != "" {
		b.WriteString(strings.ToUpper(user.LastName[:1]))
	}
	if b.Len() == 0 && user.Username != "" {
		b.WriteString(strings.ToUpper(user.Username[:1]))
	}
	return b.String()
}
