package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/curriculum"
)

const (
	subjectColumns = `subject_id, subject_name, description, branch_id, class_id`
	chapterColumns = `chapter_id, class_id, chapter_name, description`

	// a topic may have several outcome rows; the first one recorded is its outcome
	topicWithOutcomeSelect = `
		SELECT t.topic_id, t.topic_name, t.description,
		       (SELECT o.expected_outcome FROM topic_outcome o WHERE o.topic_id = t.topic_id ORDER BY o.rowid LIMIT 1) AS expected_outcome
		FROM topic t`
)

var (
	subjectOrdering = map[string]string{
		"id":       "subject_id",
		"name":     "subject_name",
		"class_id": "class_id",
	}
	chapterOrdering = map[string]string{
		"id":   "chapter_id",
		"name": "chapter_name",
	}
)

type curriculumRepository struct {
	db core.DB
}

var _ curriculum.Repository = (*curriculumRepository)(nil) // interface compliance check

func NewCurriculumRepository(db core.DB) *curriculumRepository {
	return &curriculumRepository{db: db}
}

// Subjects

func (repo curriculumRepository) CreateSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		id, err := insert(ctx, exec, `
			INSERT INTO subject (subject_name, description, branch_id, class_id)
			VALUES (:subject_name, :description, :branch_id, :class_id)`, s)
		s.ID = id
		return errors.Wrap(err, "inserting subject")
	})
	if err != nil {
		return curriculum.Subject{}, err
	}
	return s, nil
}

func (repo curriculumRepository) QuerySubjects(ctx context.Context, filter curriculum.SubjectFilter, ordering []core.DBOrdering) ([]curriculum.Subject, error) {
	var w where
	if filter.BranchID.Valid {
		w.add("branch_id = ?", filter.BranchID.Int64)
	}
	if filter.ClassID.Valid {
		w.add("class_id = ?", filter.ClassID.Int64)
	}
	query := `SELECT ` + subjectColumns + ` FROM subject` + w.String() + core.OrderByClause(ordering, subjectOrdering, "")

	subjects := make([]curriculum.Subject, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &subjects, query, w.args...), "selecting subjects")
	})
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (repo curriculumRepository) GetSubject(ctx context.Context, id int64) (curriculum.Subject, error) {
	var s curriculum.Subject
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &s, `SELECT `+subjectColumns+` FROM subject WHERE subject_id = ?`, id)
		return trapNoRowsErr(err, "selecting subject")
	})
	return s, err
}

func (repo curriculumRepository) UpdateSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE subject SET subject_name = :subject_name, description = :description WHERE subject_id = :subject_id`, s)
		_, err = affected(res, err, "updating subject")
		return err
	})
	if err != nil {
		return curriculum.Subject{}, err
	}
	return s, nil
}

func (repo curriculumRepository) DeleteSubject(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM subject WHERE subject_id = ?`, id)
		_, err = affected(res, err, "deleting subject")
		return err
	})
}

// Chapters

func (repo curriculumRepository) CreateChapter(ctx context.Context, c curriculum.Chapter) (curriculum.Chapter, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		var err error
		c.ID, err = insertChapter(ctx, exec, c)
		return err
	})
	if err != nil {
		return curriculum.Chapter{}, err
	}
	return c, nil
}

func insertChapter(ctx context.Context, exec core.DBExecutor, c curriculum.Chapter) (int64, error) {
	id, err := insert(ctx, exec, `
		INSERT INTO chapter (class_id, chapter_name, description) VALUES (:class_id, :chapter_name, :description)`, c)
	return id, errors.Wrap(err, "inserting chapter")
}

func (repo curriculumRepository) CreateChapterWithTopics(ctx context.Context, c curriculum.Chapter, topics []string, subjectID null.Int64) (curriculum.Chapter, error) {
	err := repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		var err error
		if c.ID, err = insertChapter(ctx, tx, c); err != nil {
			return err
		}
		for _, name := range topics {
			if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO topic (topic_name) VALUES (?)`, name); err != nil {
				return errors.Wrap(err, "inserting topic")
			}
			var topicID int64
			if err = tx.GetContext(ctx, &topicID, `SELECT topic_id FROM topic WHERE topic_name = ?`, name); err != nil {
				return errors.Wrap(err, "selecting topic")
			}
			assoc := curriculum.Association{TopicID: topicID, SubjectID: subjectID, ChapterID: null.Int64From(c.ID)}
			if err = associate(ctx, tx, assoc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return curriculum.Chapter{}, err
	}
	return c, nil
}

func (repo curriculumRepository) QueryChapters(ctx context.Context, classID int64, ordering []core.DBOrdering) ([]curriculum.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapter WHERE class_id = ?` + core.OrderByClause(ordering, chapterOrdering, "")
	chapters := make([]curriculum.Chapter, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return errors.Wrap(exec.SelectContext(ctx, &chapters, query, classID), "selecting chapters")
	})
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

func (repo curriculumRepository) GetChapter(ctx context.Context, id int64) (curriculum.Chapter, error) {
	var c curriculum.Chapter
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &c, `SELECT `+chapterColumns+` FROM chapter WHERE chapter_id = ?`, id)
		return trapNoRowsErr(err, "selecting chapter")
	})
	return c, err
}

func (repo curriculumRepository) UpdateChapter(ctx context.Context, c curriculum.Chapter) (curriculum.Chapter, error) {
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.NamedExecContext(ctx, `
			UPDATE chapter SET chapter_name = :chapter_name, description = :description WHERE chapter_id = :chapter_id`, c)
		_, err = affected(res, err, "updating chapter")
		return err
	})
	if err != nil {
		return curriculum.Chapter{}, err
	}
	return c, nil
}

func (repo curriculumRepository) DeleteChapter(ctx context.Context, id int64) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		res, err := exec.ExecContext(ctx, `DELETE FROM chapter WHERE chapter_id = ?`, id)
		_, err = affected(res, err, "deleting chapter")
		return err
	})
}

// Topics

func (repo curriculumRepository) CreateTopic(ctx context.Context, t curriculum.Topic, assoc curriculum.Association, outcome null.String) (curriculum.TopicWithOutcome, error) {
	err := repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		id, err := insert(ctx, tx, `INSERT INTO topic (topic_name, description) VALUES (:topic_name, :description)`, t)
		if err != nil {
			return errors.Wrap(err, "inserting topic")
		}
		t.ID = id
		assoc.TopicID = id
		if err = associate(ctx, tx, assoc); err != nil {
			return err
		}
		if outcome.Valid {
			_, err = tx.ExecContext(ctx, `INSERT INTO topic_outcome (topic_id, expected_outcome) VALUES (?, ?)`, id, outcome.String)
			return errors.Wrap(err, "inserting topic outcome")
		}
		return nil
	})
	if err != nil {
		return curriculum.TopicWithOutcome{}, err
	}
	return curriculum.TopicWithOutcome{Topic: t, ExpectedOutcome: outcome}, nil
}

func (repo curriculumRepository) QueryTopicsByChapter(ctx context.Context, chapterID int64) ([]curriculum.TopicWithOutcome, error) {
	topics := make([]curriculum.TopicWithOutcome, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &topics, topicWithOutcomeSelect+`
			WHERE t.topic_id IN (SELECT a.topic_id FROM topic_association a WHERE a.chapter_id = ?)
			ORDER BY t.topic_id`, chapterID)
		return errors.Wrap(err, "selecting chapter topics")
	})
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (repo curriculumRepository) GetTopic(ctx context.Context, id int64) (curriculum.TopicWithOutcome, error) {
	var t curriculum.TopicWithOutcome
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.GetContext(ctx, &t, topicWithOutcomeSelect+` WHERE t.topic_id = ?`, id)
		return trapNoRowsErr(err, "selecting topic")
	})
	return t, err
}

func (repo curriculumRepository) UpdateTopic(ctx context.Context, t curriculum.TopicWithOutcome) (curriculum.TopicWithOutcome, error) {
	err := repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		res, err := tx.ExecContext(ctx, `UPDATE topic SET topic_name = ?, description = ? WHERE topic_id = ?`, t.Name, t.Description, t.ID)
		if _, err = affected(res, err, "updating topic"); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM topic_outcome WHERE topic_id = ?`, t.ID); err != nil {
			return errors.Wrap(err, "deleting topic outcome")
		}
		if t.ExpectedOutcome.Valid {
			_, err = tx.ExecContext(ctx, `INSERT INTO topic_outcome (topic_id, expected_outcome) VALUES (?, ?)`, t.ID, t.ExpectedOutcome.String)
			return errors.Wrap(err, "inserting topic outcome")
		}
		return nil
	})
	if err != nil {
		return curriculum.TopicWithOutcome{}, err
	}
	return t, nil
}

func (repo curriculumRepository) DeleteTopic(ctx context.Context, id int64) error {
	return repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM topic_outcome WHERE topic_id = ?`, id); err != nil {
			return errors.Wrap(err, "deleting topic outcomes")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topic_association WHERE topic_id = ?`, id); err != nil {
			return errors.Wrap(err, "deleting topic associations")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM topic WHERE topic_id = ?`, id)
		_, err = affected(res, err, "deleting topic")
		return err
	})
}

func (repo curriculumRepository) Associate(ctx context.Context, assoc curriculum.Association) error {
	return repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		return associate(ctx, exec, assoc)
	})
}

func (repo curriculumRepository) TopicBranches(ctx context.Context, topicID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &ids, `
			SELECT cl.branch_id FROM topic_association a
			JOIN chapter ch ON ch.chapter_id = a.chapter_id
			JOIN class cl ON cl.class_id = ch.class_id
			WHERE a.topic_id = ?
			UNION
			SELECT s.branch_id FROM topic_association a
			JOIN subject s ON s.subject_id = a.subject_id
			WHERE a.topic_id = ?
			ORDER BY 1`, topicID, topicID)
		return errors.Wrap(err, "selecting topic branches")
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// associate links a topic once; linking it again is a no-op.
func associate(ctx context.Context, exec core.DBExecutor, assoc curriculum.Association) error {
	_, err := exec.NamedExecContext(ctx, `
		INSERT OR IGNORE INTO topic_association (topic_id, subject_id, chapter_id)
		VALUES (:topic_id, :subject_id, :chapter_id)`, assoc)
	return errors.Wrap(err, "inserting topic association")
}

// Evaluations

func (repo curriculumRepository) SetEvaluated(ctx context.Context, topicID int64, evaluated bool) (curriculum.Evaluation, error) {
	ev := curriculum.Evaluation{TopicID: topicID, IsEvaluated: evaluated}
	err := repo.db.Tx(ctx, func(tx core.DBExecutor) error {
		res, err := tx.ExecContext(ctx, `UPDATE evaluation SET is_evaluated = ? WHERE topic_id = ?`, evaluated, topicID)
		if err != nil {
			return errors.Wrap(err, "updating evaluation")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "counting updated evaluations")
		}
		if n > 0 {
			err = tx.GetContext(ctx, &ev.ID, `SELECT MIN(evaluation_id) FROM evaluation WHERE topic_id = ?`, topicID)
			return errors.Wrap(err, "selecting evaluation")
		}
		ev.ID, err = insert(ctx, tx, `INSERT INTO evaluation (topic_id, is_evaluated) VALUES (:topic_id, :is_evaluated)`, ev)
		return errors.Wrap(err, "inserting evaluation")
	})
	if err != nil {
		return curriculum.Evaluation{}, err
	}
	return ev, nil
}

func (repo curriculumRepository) EvaluationSummary(ctx context.Context, classID int64) ([]curriculum.ChapterEvaluation, error) {
	rows := make([]curriculum.ChapterEvaluation, 0)
	err := repo.db.Conn(ctx, func(exec core.DBExecutor) error {
		err := exec.SelectContext(ctx, &rows, `
			SELECT c.chapter_id, c.chapter_name,
			       COUNT(DISTINCT CASE WHEN e.topic_id IS NOT NULL THEN a.topic_id END) AS evaluated,
			       COUNT(DISTINCT CASE WHEN e.topic_id IS NULL THEN a.topic_id END) AS not_evaluated
			FROM chapter c
			LEFT JOIN topic_association a ON a.chapter_id = c.chapter_id
			LEFT JOIN evaluation e ON e.topic_id = a.topic_id AND e.is_evaluated = 1
			WHERE c.class_id = ?
			GROUP BY c.chapter_id, c.chapter_name
			ORDER BY c.chapter_id`, classID)
		return errors.Wrap(err, "summarizing evaluations")
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
