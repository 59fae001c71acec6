package xray

// HasIssues reports whether a decoded summary response carries at least one issue.
//
// Issues may be reported on the artifact itself or on any of its components, so both
// levels are inspected. Any value of an unexpected shape is treated as carrying no issues.
func HasIssues(summary interface{}) bool {
	data, ok := summary.(map[string]interface{})
	if !ok {
		return false
	}

	artifacts, ok := data["artifacts"].([]interface{})
	if !ok || len(artifacts) == 0 {
		return false
	}

	for _, entry := range artifacts {
		artifact, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if nonEmptyList(artifact["issues"]) {
			return true
		}

		components, ok := artifact["components"].([]interface{})
		if !ok {
			continue
		}
		for _, c := range components {
			component, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			if nonEmptyList(component["issues"]) {
				return true
			}
		}
	}

	return false
}

func nonEmptyList(v interface{}) bool {
	list, ok := v.([]interface{})
	return ok && len(list) > 0
}
