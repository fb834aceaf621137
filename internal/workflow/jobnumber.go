package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stargate-press/stargate/internal/models"
	"gorm.io/gorm"
)

// GenerateJobNumber produces the next job number for the given entry
// date and press type: <yearCode><monthCode><DD><NN>.
//
// The year code is 'A' + (year - 2024), lower-cased for stack presses
// so the press class is readable off the identifier. Months run 1-9
// then O, N, D. The two-digit sequence continues from the highest
// existing number sharing the same day and prefix, capped at 99 per day
// per class (ErrCapacity beyond that).
//
// Call this inside the same transaction as the job insert; the unique
// key on job_number turns a concurrent collision into a rollback
// instead of a duplicate.
func GenerateJobNumber(db *gorm.DB, entryDate time.Time, pressType string) (string, error) {
	yearCode := string(rune('A' + entryDate.Year() - 2024))
	if strings.Contains(strings.ToLower(pressType), "stack") {
		yearCode = strings.ToLower(yearCode)
	}

	monthCode := monthCode(entryDate.Month())
	day := fmt.Sprintf("%02d", entryDate.Day())
	prefix := strings.ToLower(yearCode) + monthCode + day

	var last string
	err := db.Model(&models.Job{}).
		Select("job_number").
		Where("DATE(created_at) = ? AND LOWER(job_number) LIKE ?",
			entryDate.Format("2006-01-02"), prefix+"%").
		// Drum and stack numbers differ only in year-code case but
		// share one sequence pool; order case-insensitively so a
		// binary collation cannot rank b… above every B….
		Order("LOWER(job_number) DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("workflow: scan job numbers for %s: %w", prefix, err)
	}

	sequence := 1
	if last != "" {
		n, err := strconv.Atoi(last[len(last)-2:])
		if err != nil {
			return "", fmt.Errorf("workflow: malformed job number %q: %w", last, err)
		}
		sequence = n + 1
		if sequence > 99 {
			return "", ErrCapacity
		}
	}

	return fmt.Sprintf("%s%s%s%02d", yearCode, monthCode, day, sequence), nil
}

func monthCode(m time.Month) string {
	switch m {
	case time.October:
		return "O"
	case time.November:
		return "N"
	case time.December:
		return "D"
	default:
		return strconv.Itoa(int(m))
	}
}
