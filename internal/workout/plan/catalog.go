package plan

var catalog = map[FitnessLevel][]Exercise{
	LevelBasic: {
		{
			Name:          "Push-ups",
			Sets:          3,
			Reps:          "8-12",
			RestTime:      60,
			Description:   "A basic upper body exercise that targets chest, shoulders, and triceps. Start with modified push-ups if needed.",
			VideoID:       "IODxDxX7oi4",
			TargetMuscles: []string{"Chest", "Shoulders", "Triceps"},
		},
		{
			Name:          "Bodyweight Squats",
			Sets:          3,
			Reps:          "10-15",
			RestTime:      60,
			Description:   "A fundamental lower body exercise that strengthens your legs and glutes. Focus on proper form.",
			VideoID:       "aclHkVaku9U",
			TargetMuscles: []string{"Quadriceps", "Glutes", "Hamstrings"},
		},
		{
			Name:          "Plank",
			Sets:          3,
			Reps:          "30-45 sec",
			RestTime:      45,
			Description:   "Core strengthening exercise. Maintain a straight line from head to heels.",
			VideoID:       "ASdvN_XEl_c",
			TargetMuscles: []string{"Core", "Shoulders"},
		},
	},
	LevelIntermediate: {
		{
			Name:          "Burpees",
			Sets:          3,
			Reps:          "8-12",
			RestTime:      90,
			Description:   "Full body exercise combining a squat, push-up, and jump. Great for cardio and strength.",
			VideoID:       "TU8QYVW0gDU",
			TargetMuscles: []string{"Full Body", "Cardio"},
		},
		{
			Name:          "Mountain Climbers",
			Sets:          3,
			Reps:          "20-30",
			RestTime:      60,
			Description:   "Dynamic core exercise that also provides cardio benefits. Keep your core tight.",
			VideoID:       "nmwgirgXLYM",
			TargetMuscles: []string{"Core", "Cardio", "Shoulders"},
		},
		{
			Name:          "Jump Squats",
			Sets:          3,
			Reps:          "12-15",
			RestTime:      75,
			Description:   "Explosive lower body exercise that builds power and strength in your legs.",
			VideoID:       "YGGq0AE5Uyc",
			TargetMuscles: []string{"Quadriceps", "Glutes", "Calves"},
		},
		{
			Name:          "Pike Push-ups",
			Sets:          3,
			Reps:          "8-12",
			RestTime:      75,
			Description:   "Targets shoulders and upper chest. Great progression towards handstand push-ups.",
			VideoID:       "x4YNjsWKUr8",
			TargetMuscles: []string{"Shoulders", "Triceps", "Upper Chest"},
		},
	},
	LevelAdvanced: {
		{
			Name:          "Pistol Squats",
			Sets:          3,
			Reps:          "5-8 each leg",
			RestTime:      120,
			Description:   "Single-leg squat that requires significant strength, balance, and mobility.",
			VideoID:       "vq5-vdgJc0I",
			TargetMuscles: []string{"Quadriceps", "Glutes", "Balance"},
		},
		{
			Name:          "One-Arm Push-ups",
			Sets:          3,
			Reps:          "3-6 each arm",
			RestTime:      120,
			Description:   "Advanced push-up variation requiring significant upper body strength and core stability.",
			VideoID:       "IZqOqO7bTlw",
			TargetMuscles: []string{"Chest", "Triceps", "Core"},
		},
		{
			Name:          "Handstand Push-ups",
			Sets:          3,
			Reps:          "5-10",
			RestTime:      150,
			Description:   "Inverted pressing movement that builds incredible shoulder and arm strength.",
			VideoID:       "tQhrk6WMcKw",
			TargetMuscles: []string{"Shoulders", "Triceps", "Core"},
		},
		{
			Name:          "Muscle-ups",
			Sets:          3,
			Reps:          "3-6",
			RestTime:      180,
			Description:   "Combination of pull-up and dip that requires explosive pulling power.",
			VideoID:       "BZYUfp-73Xw",
			TargetMuscles: []string{"Back", "Biceps", "Triceps"},
		},
	},
}

// LookupPlan returns the ordered workout for the level. Unknown levels get
// the basic plan. The result is a copy, the catalog itself is never exposed.
func LookupPlan(level FitnessLevel) []Exercise {
	exercises, ok := catalog[level]
	if !ok {
		exercises = catalog[LevelBasic]
	}

	planCopy := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		ex.TargetMuscles = append([]string(nil), ex.TargetMuscles...)
		planCopy[i] = ex
	}
	return planCopy
}

func Levels() []FitnessLevel {
	return []FitnessLevel{LevelBasic, LevelIntermediate, LevelAdvanced}
}

func TotalSets(exercises []Exercise) int {
	total := 0
	for _, ex := range exercises {
		total += ex.Sets
	}
	return total
}
