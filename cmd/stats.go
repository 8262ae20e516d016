package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show a learner's mastery statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		st, err := store.Open(cfg)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		userID := args[0]

		km, err := knowledgemap.NewProjector(st.Mastery()).Build(ctx, userID, "")
		if err != nil {
			return fmt.Errorf("build knowledge map: %w", err)
		}

		svc := insights.NewService(
			insights.NewAggregator(st.Mastery(), st.Interactions()),
			st.Snapshots(),
			cfg.Insights.CacheTTL,
			cfg.Insights.ReadTimeout,
		)
		ins, err := svc.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("compute insights: %w", err)
		}

		type subjectCount struct{ total, mastered int }
		bySubject := make(map[string]*subjectCount)
		for _, sk := range km.Skills {
			c := bySubject[sk.Subject]
			if c == nil {
				c = &subjectCount{}
				bySubject[sk.Subject] = c
			}
			c.total++
			if sk.Status == mastery.StatusMastered {
				c.mastered++
			}
		}

		fmt.Printf("User %s\n", userID)
		fmt.Printf("  Skills: %d total | %d mastered | %d learning | %d struggling\n",
			km.TotalSkills, km.MasteredSkills, km.LearningSkills, km.StrugglingSkills)
		for _, subject := range catalog.AllSubjects() {
			c := bySubject[string(subject)]
			if c == nil {
				continue
			}
			fmt.Printf("    %s: %d/%d mastered\n", catalog.SubjectDisplayName(subject), c.mastered, c.total)
		}
		fmt.Printf("  Health score: %d/100\n", ins.HealthScore)
		fmt.Printf("  This week: %d questions, %.0f%% accuracy, %d active days\n",
			ins.WeeklyTrend.TotalQuestions, ins.WeeklyTrend.Accuracy*100, ins.WeeklyTrend.ActiveDays)
		fmt.Printf("  %s\n", ins.PersonalizedMessage)
		return nil
	},
}
