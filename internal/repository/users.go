package repository

import (
	"time"

	"healthmon/internal/domain"
)

func (r *Repos) CreateUser(u *domain.User) error {
	return r.db.QueryRowx(`INSERT INTO users
		(user_id, username, email, password_hash, name, age, height_cm, weight_kg,
		 fitness_level, medical_conditions, timezone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		u.UserID, u.Username, u.Email, u.PasswordHash, u.Name, u.Age, u.HeightCM,
		u.WeightKG, u.FitnessLevel, u.MedicalConditions, u.Timezone,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *Repos) UserByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repos) UserByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repos) UserByUserID(userID string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT * FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *Repos) UpdateUserProfile(u *domain.User) error {
	_, err := r.db.Exec(`UPDATE users SET name=$1, age=$2, height_cm=$3, weight_kg=$4,
		fitness_level=$5, medical_conditions=$6, timezone=$7 WHERE user_id=$8`,
		u.Name, u.Age, u.HeightCM, u.WeightKG, u.FitnessLevel, u.MedicalConditions,
		u.Timezone, u.UserID)
	return err
}

func (r *Repos) UpdateUserPassword(userID, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash=$1 WHERE user_id=$2`, passwordHash, userID)
	return err
}

func (r *Repos) RecordLogin(userID string, at time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET last_login=$1, failed_login_attempts=0 WHERE user_id=$2`, at, userID)
	return err
}

func (r *Repos) RecordFailedLogin(userID string) error {
	_, err := r.db.Exec(`UPDATE users SET failed_login_attempts = failed_login_attempts + 1 WHERE user_id=$1`, userID)
	return err
}
