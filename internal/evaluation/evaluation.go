package evaluation

// Structure grades architecture and coding practice (max 40)
type Structure struct {
	Architecture        int    `json:"architecture" validate:"min=0,max=10"`
	ArchitectureComment string `json:"architecture_comment" validate:"max=2000"`
	Readability         int    `json:"readability" validate:"min=0,max=5"`
	ReadabilityComment  string `json:"readability_comment" validate:"max=2000"`
	Refactoring         int    `json:"refactoring" validate:"min=0,max=5"`
	RefactoringComment  string `json:"refactoring_comment" validate:"max=2000"`
	UnitTests           int    `json:"unit_tests" validate:"min=0,max=10"`
	UnitTestsComment    string `json:"unit_tests_comment" validate:"max=2000"`
	Environment         int    `json:"environment" validate:"min=0,max=10"`
	EnvironmentComment  string `json:"environment_comment" validate:"max=2000"`
}

// Collaboration grades git usage and the split of work (max 25)
type Collaboration struct {
	GitUsage         int    `json:"git_usage" validate:"min=0,max=10"`
	GitUsageComment  string `json:"git_usage_comment" validate:"max=2000"`
	TaskSplit        int    `json:"task_split" validate:"min=0,max=15"`
	TaskSplitComment string `json:"task_split_comment" validate:"max=2000"`
}

// Documentation grades documentation and deliverables (max 35)
type Documentation struct {
	Readme                   int    `json:"readme" validate:"min=0,max=10"`
	ReadmeComment            string `json:"readme_comment" validate:"max=2000"`
	CodeComments             int    `json:"code_comments" validate:"min=0,max=5"`
	CodeCommentsComment      string `json:"code_comments_comment" validate:"max=2000"`
	UsageGuide               int    `json:"usage_guide" validate:"min=0,max=5"`
	UsageGuideComment        string `json:"usage_guide_comment" validate:"max=2000"`
	CleanDeliverables        int    `json:"clean_deliverables" validate:"min=0,max=5"`
	CleanDeliverablesComment string `json:"clean_deliverables_comment" validate:"max=2000"`
	PromptEngineering        int    `json:"prompt_engineering" validate:"min=0,max=10"`
	PromptEngineeringComment string `json:"prompt_engineering_comment" validate:"max=2000"`
}

// BonusML holds the machine learning bonus points (max 5)
type BonusML struct {
	ModelChoice             int    `json:"model_choice" validate:"min=0,max=1"`
	ModelChoiceComment      string `json:"model_choice_comment" validate:"max=2000"`
	Preprocessing           int    `json:"preprocessing" validate:"min=0,max=1"`
	PreprocessingComment    string `json:"preprocessing_comment" validate:"max=2000"`
	ModelEvaluation         int    `json:"model_evaluation" validate:"min=0,max=1"`
	ModelEvaluationComment  string `json:"model_evaluation_comment" validate:"max=2000"`
	CriticalAnalysis        int    `json:"critical_analysis" validate:"min=0,max=1"`
	CriticalAnalysisComment string `json:"critical_analysis_comment" validate:"max=2000"`
	Explainability          int    `json:"explainability" validate:"min=0,max=1"`
	ExplainabilityComment   string `json:"explainability_comment" validate:"max=2000"`
}

// BonusTech holds the technical bonus points (max 5)
type BonusTech struct {
	Pipeline                   int    `json:"pipeline" validate:"min=0,max=1"`
	PipelineComment            string `json:"pipeline_comment" validate:"max=2000"`
	IntegratedExplainer        int    `json:"integrated_explainer" validate:"min=0,max=1"`
	IntegratedExplainerComment string `json:"integrated_explainer_comment" validate:"max=2000"`
	WorkingInterface           int    `json:"working_interface" validate:"min=0,max=1"`
	WorkingInterfaceComment    string `json:"working_interface_comment" validate:"max=2000"`
	Complexity                 int    `json:"complexity" validate:"min=0,max=1"`
	ComplexityComment          string `json:"complexity_comment" validate:"max=2000"`
	Dependencies               int    `json:"dependencies" validate:"min=0,max=1"`
	DependenciesComment        string `json:"dependencies_comment" validate:"max=2000"`
}

// Evaluation is the grading of one repository
type Evaluation struct {
	Structure     Structure     `json:"structure"`
	Collaboration Collaboration `json:"collaboration"`
	Documentation Documentation `json:"documentation"`
	BonusML       BonusML       `json:"bonus_ml"`
	BonusTech     BonusTech     `json:"bonus_tech"`
}

// Field addresses one criterion of an evaluation for forms and listings
type Field struct {
	Section string
	Key     string
	Label   string
	Max     int
	Score   *int
	Comment *string
}

// Fields returns the criteria of e in display order, pointing into e
func (e *Evaluation) Fields() []Field {
	s, c, d, m, t := &e.Structure, &e.Collaboration, &e.Documentation, &e.BonusML, &e.BonusTech
	return []Field{
		{"structure", "architecture", "Modular architecture", 10, &s.Architecture, &s.ArchitectureComment},
		{"structure", "readability", "Code readability", 5, &s.Readability, &s.ReadabilityComment},
		{"structure", "refactoring", "Refactoring", 5, &s.Refactoring, &s.RefactoringComment},
		{"structure", "unit_tests", "Unit tests", 10, &s.UnitTests, &s.UnitTestsComment},
		{"structure", "environment", "Environment setup", 10, &s.Environment, &s.EnvironmentComment},
		{"collaboration", "git_usage", "Git usage", 10, &c.GitUsage, &c.GitUsageComment},
		{"collaboration", "task_split", "Task split", 15, &c.TaskSplit, &c.TaskSplitComment},
		{"documentation", "readme", "README", 10, &d.Readme, &d.ReadmeComment},
		{"documentation", "code_comments", "Code comments", 5, &d.CodeComments, &d.CodeCommentsComment},
		{"documentation", "usage_guide", "Usage guide", 5, &d.UsageGuide, &d.UsageGuideComment},
		{"documentation", "clean_deliverables", "Clean deliverables", 5, &d.CleanDeliverables, &d.CleanDeliverablesComment},
		{"documentation", "prompt_engineering", "Prompt engineering", 10, &d.PromptEngineering, &d.PromptEngineeringComment},
		{"bonus_ml", "model_choice", "Model choice", 1, &m.ModelChoice, &m.ModelChoiceComment},
		{"bonus_ml", "preprocessing", "Preprocessing", 1, &m.Preprocessing, &m.PreprocessingComment},
		{"bonus_ml", "model_evaluation", "Model evaluation", 1, &m.ModelEvaluation, &m.ModelEvaluationComment},
		{"bonus_ml", "critical_analysis", "Critical analysis", 1, &m.CriticalAnalysis, &m.CriticalAnalysisComment},
		{"bonus_ml", "explainability", "Explainability", 1, &m.Explainability, &m.ExplainabilityComment},
		{"bonus_tech", "pipeline", "Complete pipeline", 1, &t.Pipeline, &t.PipelineComment},
		{"bonus_tech", "integrated_explainer", "Explainer in the interface", 1, &t.IntegratedExplainer, &t.IntegratedExplainerComment},
		{"bonus_tech", "working_interface", "Working interface", 1, &t.WorkingInterface, &t.WorkingInterfaceComment},
		{"bonus_tech", "complexity", "Additional complexity", 1, &t.Complexity, &t.ComplexityComment},
		{"bonus_tech", "dependencies", "Lean dependencies", 1, &t.Dependencies, &t.DependenciesComment},
	}
}
