package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmzaytsev/forum-quiz-bot/internal/dateutil"
	"github.com/dmzaytsev/forum-quiz-bot/internal/domain/entities"
)

// csvHeader is the export header row. The file carries a UTF-8 BOM so that
// spreadsheet tools detect the encoding.
var csvHeader = []string{
	"ID Пользователя",
	"Имя Пользователя",
	"Ник на форуме",
	"Дата",
	"Правильные ответы",
	"Всего вопросов",
	"Время прохождения",
	"Время начала",
	"Время окончания",
	"Ответы",
}

const noNicknameCell = "регистрации на форуме нет"

// AppendResultCSV appends one attempt row to the tabular export, creating
// the file with BOM and header on first use. Rows use CRLF line endings.
func AppendResultCSV(path string, res *entities.QuizResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = true

	if created {
		if _, err := f.WriteString("\ufeff"); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	nickname := res.Nickname
	if nickname == "" {
		nickname = noNicknameCell
	}

	row := []string{
		strconv.FormatInt(res.UserID, 10),
		displayUsername(res.Username),
		nickname,
		dateutil.FormatDate(res.FinishedAt),
		strconv.Itoa(res.Score),
		strconv.Itoa(res.Total),
		dateutil.FormatDuration(res.TimeSpent),
		dateutil.FormatDateTime(res.StartedAt),
		dateutil.FormatDateTime(res.FinishedAt),
		flattenAnswers(res.Answers),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

// flattenAnswers renders the whole answer log as one multi-line cell.
func flattenAnswers(answers []entities.AnswerRecord) string {
	var sb strings.Builder
	for i, a := range answers {
		if i > 0 {
			sb.WriteString("\r\n")
		}
		mark := "❌"
		if a.IsCorrect {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "Вопрос %d\r\n", i+1)
		fmt.Fprintf(&sb, "Вопрос: %s\r\n", a.Question)
		fmt.Fprintf(&sb, "Ответ: %s\r\n", a.Selected)
		fmt.Fprintf(&sb, "Правильно: %s (%s)\r\n", mark, a.Correct)
		sb.WriteString("────────────────────────")
	}
	return sb.String()
}
