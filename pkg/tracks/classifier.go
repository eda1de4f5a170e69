package tracks

// ClassifyType derives the track category from OSM tags. First matching
// rule wins; missing tags behave as empty strings.
func ClassifyType(tags map[string]string) TrackType {
	usage := tags["usage"]
	service := tags["service"]
	railway := tags["railway"]

	if usage == "industrial" || usage == "military" || service == "siding" || service == "yard" {
		return TrackTypeFreight
	}

	if usage == "branch" || service == "branch" || railway == "light_rail" || railway == "subway" {
		return TrackTypeBranch
	}

	return TrackTypeMain
}
