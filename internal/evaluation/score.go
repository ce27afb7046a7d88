package evaluation

import "math"

const (
	StructureMax     = 40
	CollaborationMax = 25
	DocumentationMax = 35
	MainMax          = StructureMax + CollaborationMax + DocumentationMax
	BonusMLMax       = 5
	BonusTechMax     = 5
	BonusMax         = BonusMLMax + BonusTechMax
	FinalMax         = MainMax + BonusMax
)

// Scores is the breakdown of an evaluation
type Scores struct {
	Structure     int     `json:"structure"`
	Collaboration int     `json:"collaboration"`
	Documentation int     `json:"documentation"`
	Main          int     `json:"main"`
	BonusML       int     `json:"bonus_ml"`
	BonusTech     int     `json:"bonus_tech"`
	Bonus         int     `json:"bonus"`
	Final         int     `json:"final"`
	Percentage    float64 `json:"percentage"`
	Grade         string  `json:"grade"`
}

// Score sums the sections of e. Percentage and grade are taken from the main score.
func Score(e *Evaluation) Scores {
	s := e.Structure
	c := e.Collaboration
	d := e.Documentation
	m := e.BonusML
	t := e.BonusTech

	scores := Scores{
		Structure:     s.Architecture + s.Readability + s.Refactoring + s.UnitTests + s.Environment,
		Collaboration: c.GitUsage + c.TaskSplit,
		Documentation: d.Readme + d.CodeComments + d.UsageGuide + d.CleanDeliverables + d.PromptEngineering,
		BonusML:       m.ModelChoice + m.Preprocessing + m.ModelEvaluation + m.CriticalAnalysis + m.Explainability,
		BonusTech:     t.Pipeline + t.IntegratedExplainer + t.WorkingInterface + t.Complexity + t.Dependencies,
	}
	scores.Main = scores.Structure + scores.Collaboration + scores.Documentation
	scores.Bonus = scores.BonusML + scores.BonusTech
	scores.Final = scores.Main + scores.Bonus
	scores.Percentage = math.Round(float64(scores.Main)*1000/MainMax) / 10
	scores.Grade = Grade(scores.Percentage)

	return scores
}

// Grade maps a percentage to a letter grade
func Grade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
