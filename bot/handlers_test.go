package bot

import (
	"context"
	"testing"

	"concoin/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingUserService captures the upsert call without a real backend
type recordingUserService struct {
	upsertedID   int64
	upsertedName string
}

func (s *recordingUserService) UpsertUser(ctx context.Context, userID int64, displayName string) (*models.User, error) {
	s.upsertedID = userID
	s.upsertedName = displayName
	return &models.User{UserID: userID, DisplayName: displayName}, nil
}

func (s *recordingUserService) Resolve(ctx context.Context, targetSpec string) (*models.User, error) {
	return nil, nil
}

func (s *recordingUserService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func TestUpsertCaller(t *testing.T) {
	ctx := context.Background()

	t.Run("guild interaction reads the member user", func(t *testing.T) {
		svc := &recordingUserService{}
		b := &Bot{userService: svc}

		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "123456", Username: "alice"},
			},
		}}

		userID, err := b.upsertCaller(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, int64(123456), userID)
		assert.Equal(t, "alice", svc.upsertedName)
	})

	t.Run("direct message interaction has no member", func(t *testing.T) {
		svc := &recordingUserService{}
		b := &Bot{userService: svc}

		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			User: &discordgo.User{ID: "654321", Username: "bob"},
		}}

		userID, err := b.upsertCaller(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, int64(654321), userID)
		assert.Equal(t, int64(654321), svc.upsertedID)
	})

	t.Run("interaction without any user errors instead of panicking", func(t *testing.T) {
		b := &Bot{userService: &recordingUserService{}}

		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}

		_, err := b.upsertCaller(ctx, i)
		assert.Error(t, err)
	})

	t.Run("non-numeric user id errors", func(t *testing.T) {
		b := &Bot{userService: &recordingUserService{}}

		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			User: &discordgo.User{ID: "not-a-snowflake"},
		}}

		_, err := b.upsertCaller(ctx, i)
		assert.Error(t, err)
	})
}
