package models

// Auth requests

type RegisterStudentRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type RegisterTeacherRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Specialization  string `json:"specialization" validate:"required,max=100"`
	Bio             string `json:"bio" validate:"max=2000"`
	YearsExperience int    `json:"yearsExperience" validate:"gte=0,lte=60"`
}

type RegisterSupervisorRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Department      string `json:"department" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Code            string `json:"code" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginResponse pairs the issued token with the sanitized account profile.
type LoginResponse struct {
	Token   string      `json:"token"`
	Profile interface{} `json:"profile"`
}

// Profile updates

type UpdateStudentProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
}

type UpdateTeacherProfileRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Specialization  string `json:"specialization" validate:"required,max=100"`
	Bio             string `json:"bio" validate:"max=2000"`
	YearsExperience int    `json:"yearsExperience" validate:"gte=0,lte=60"`
}

type UpdateSupervisorProfileRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	Department string `json:"department" validate:"required,max=100"`
}

// Course / module / lesson requests

type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,max=150"`
	Description  string `json:"description" validate:"required,max=5000"`
	Category     string `json:"category" validate:"required,max=60"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
}

type UpdateCourseRequest struct {
	Title        string `json:"title" validate:"required,max=150"`
	Description  string `json:"description" validate:"required,max=5000"`
	Category     string `json:"category" validate:"required,max=60"`
	Level        string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
}

type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"max=2000"`
	Position    int    `json:"position" validate:"gte=0"`
}

type UpdateModuleRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"max=2000"`
}

type ReorderModulesRequest struct {
	ModuleIDs []string `json:"moduleIds" validate:"required,min=1,dive,required"`
}

type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,max=150"`
	Content         string `json:"content" validate:"required"`
	VideoURL        string `json:"videoUrl" validate:"omitempty,url"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0"`
	Position        int    `json:"position" validate:"gte=0"`
	Quiz            Quiz   `json:"quiz"`
}

type UpdateLessonRequest struct {
	Title           string `json:"title" validate:"required,max=150"`
	Content         string `json:"content" validate:"required"`
	VideoURL        string `json:"videoUrl" validate:"omitempty,url"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0"`
	Quiz            Quiz   `json:"quiz"`
}

type ReviewLessonRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

// Progress events

type CompleteLessonRequest struct {
	QuizScore        *int `json:"quizScore" validate:"omitempty,gte=0,lte=100"`
	TimeSpentMinutes int  `json:"timeSpentMinutes" validate:"gte=0"`
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

// EnrolledCourse pairs an enrollment with its course for student views.
type EnrolledCourse struct {
	Course     Course     `json:"course"`
	Enrollment Enrollment `json:"enrollment"`
}

// QuizResult reports a graded quiz submission.
type QuizResult struct {
	Score        int  `json:"score"`
	Correct      int  `json:"correct"`
	Total        int  `json:"total"`
	BestScore    int  `json:"bestScore"`
	AttemptCount int  `json:"attemptCount"`
	Passed       bool `json:"passed"`
}
