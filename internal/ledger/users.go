package ledger

import (
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vetclinic/m/domain"
)

const redactedPassword = "***"

// Users returns every user without password hashes.
func (l *Ledger) Users() []domain.User {
	out := make([]domain.User, len(l.st.Users))
	for i, u := range l.st.Users {
		u.Password = ""
		out[i] = u
	}
	return out
}

// SaveUser creates u (empty id) or updates it. A blank password on update
// keeps the stored hash.
func (l *Ledger) SaveUser(u domain.User) (domain.User, error) {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return domain.User{}, invalid("username is required")
	}
	if u.Role != domain.RoleAdmin && u.Role != domain.RoleStaff {
		return domain.User{}, invalid("unknown role %q", u.Role)
	}
	for _, other := range l.st.Users {
		if other.ID != u.ID && strings.EqualFold(other.Username, u.Username) {
			return domain.User{}, fail(ErrUsernameTaken, "%s", u.Username)
		}
	}

	if u.ID == "" {
		if u.Password == "" {
			return domain.User{}, invalid("password is required")
		}
		hash, err := HashPassword(u.Password)
		if err != nil {
			return domain.User{}, err
		}
		u.ID = l.st.Counters.NextUserID()
		u.Password = hash
		l.st.Users = append(l.st.Users, u)
		l.logSync(domain.ActionCreate, redacted(u))
		u.Password = ""
		return u, nil
	}

	idx := slices.IndexFunc(l.st.Users, func(x domain.User) bool { return x.ID == u.ID })
	if idx < 0 {
		return domain.User{}, fail(ErrUserNotFound, "%s", u.ID)
	}
	existing := &l.st.Users[idx]
	existing.Username, existing.Role = u.Username, u.Role
	if u.Password != "" {
		hash, err := HashPassword(u.Password)
		if err != nil {
			return domain.User{}, err
		}
		existing.Password = hash
	}
	l.logSync(domain.ActionUpdate, redacted(*existing))
	out := *existing
	out.Password = ""
	return out, nil
}

func (l *Ledger) DeleteUser(id string) error {
	idx := slices.IndexFunc(l.st.Users, func(x domain.User) bool { return x.ID == id })
	if idx < 0 {
		return fail(ErrUserNotFound, "%s", id)
	}
	l.st.Users = slices.Delete(l.st.Users, idx, idx+1)
	l.logDelete(domain.CollectionUsers, id)
	return nil
}

// Authenticate checks a username/password pair against the stored hashes.
func (l *Ledger) Authenticate(username, password string) (domain.User, error) {
	for _, u := range l.st.Users {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return domain.User{}, ErrInvalidPassword
		}
		u.Password = ""
		return u, nil
	}
	return domain.User{}, ErrInvalidPassword
}

func (l *Ledger) ClinicSettings() domain.ClinicSettings {
	return l.st.ClinicSettings
}

func (l *Ledger) SaveClinicSettings(s domain.ClinicSettings) (domain.ClinicSettings, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return domain.ClinicSettings{}, invalid("clinic name is required")
	}
	l.st.ClinicSettings = s
	l.logSync(domain.ActionUpdate, s)
	return s, nil
}

// HashPassword returns the bcrypt hash stored for a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func redacted(u domain.User) domain.User {
	u.Password = redactedPassword
	return u
}
