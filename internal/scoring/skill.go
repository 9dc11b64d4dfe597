package scoring

import (
	"github.com/jonathan/ats-scorer/internal/types"
)

// neutralSkillScore is used when no skills are detected in the job description
const neutralSkillScore = 50.0

func (s *Scorer) skillScore(resumeText, jobDescription string) types.SubScore[types.SkillDetails] {
	resumeSkills := s.extractor.ExtractSkills(resumeText)
	jdSkills := s.extractor.ExtractSkills(jobDescription)

	jd := lowerUnique(skillNames(jdSkills))
	resume := lowerUnique(skillNames(resumeSkills))

	matched, missing := partition(jd, resume)

	details := types.SkillDetails{
		MatchedSkills: matched,
		MissingSkills: missing,
		ResumeSkills:  resumeSkills.ByCategory(),
		JDSkills:      jdSkills.ByCategory(),
		TotalJDSkills: len(jd),
		MatchedCount:  len(matched),
	}

	if len(jd) == 0 {
		details.DefaultApplied = true
		return types.SubScore[types.SkillDetails]{Score: neutralSkillScore, Details: details}
	}

	return types.SubScore[types.SkillDetails]{Score: ratio(len(matched), len(jd)), Details: details}
}

func skillNames(skills types.ExtractedSkills) []string {
	matches := skills.Matches()
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Name
	}
	return out
}
