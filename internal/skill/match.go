package skill

// Selection is the outcome of matching: either an ordered list of skills
// with their target levels, or the single general-fit slot.
type Selection struct {
	Skills     []Association
	GeneralFit bool
}

// Empty reports whether the selection assesses nothing at all.
func (s Selection) Empty() bool {
	return !s.GeneralFit && len(s.Skills) == 0
}

// Match selects the skills a job-assessment quiz covers. Skills present on
// both the job and the candidate are kept at the job's importance level.
// When the two sets do not overlap, the full job set is used. A job with
// no skills yields the general-fit slot.
func Match(jobSkills, candidateSkills []Association) Selection {
	job := dedupe(jobSkills)
	if len(job) == 0 {
		return Selection{GeneralFit: true}
	}

	declared := make(map[string]struct{}, len(candidateSkills))
	for _, c := range candidateSkills {
		declared[c.SkillID] = struct{}{}
	}

	var matched []Association
	for _, j := range job {
		if _, ok := declared[j.SkillID]; ok {
			matched = append(matched, j)
		}
	}
	if len(matched) == 0 {
		return Selection{Skills: job}
	}
	return Selection{Skills: matched}
}

// Practice selects the skills of a practice quiz: the candidate's own
// skills at their declared proficiency.
func Practice(candidateSkills []Association) Selection {
	own := dedupe(candidateSkills)
	if len(own) == 0 {
		return Selection{GeneralFit: true}
	}
	return Selection{Skills: own}
}

// dedupe drops repeated skill ids, keeping the first occurrence, and
// returns a copy so callers never alias the input slice.
func dedupe(in []Association) []Association {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]Association, 0, len(in))
	for _, a := range in {
		if _, ok := seen[a.SkillID]; ok {
			continue
		}
		seen[a.SkillID] = struct{}{}
		out = append(out, a)
	}
	return out
}
