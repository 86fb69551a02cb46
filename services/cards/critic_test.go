package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moviescope/models"
)

func TestCritic(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"劇場版「鬼滅の刃」無限城編", "アニメーション映画の新たな可能性"},
		{"スーパーマン", "スーパーヒーローの原点"},
		{"Heat", ""},
		{"him", ""},
		// both "死霊館" and "ミッション" appear; the earlier entry wins
		{"死霊館 最後のミッション", "恐怖の新境地を切り開く傑作ホラー"},
		// "HIM" precedes "トロン" in the table
		{"トロン: HIM", "心理的サスペンスの傑作"},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.want, Critic(tc.title))
		})
	}
}

func TestCardAndDetailCarryCritic(t *testing.T) {
	card := Card(models.MovieSummary{ID: 1, Title: "トロン：アレス"}, false)
	assert.Equal(t, "サイバーパンクの名作", card.Critic)

	view := Detail(&models.MovieDetail{MovieSummary: models.MovieSummary{ID: 2, Title: "Heat"}}, nil, "JP", false)
	assert.Empty(t, view.Critic)

	view = Detail(&models.MovieDetail{MovieSummary: models.MovieSummary{ID: 3, Title: "ミッション：インポッシブル"}}, nil, "JP", false)
	assert.Equal(t, "アクション映画の最高峰", view.Critic)
}
