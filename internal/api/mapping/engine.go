package mapping

// MapEntity applies cfg to one record. The result holds exactly the
// declared targets: unmapped record keys never leak and absent sources are
// still passed through their transform.
func MapEntity(cfg EntityMapConfig, rec Record) Entity {
	out := make(Entity, len(cfg.Fields)+len(cfg.Relations))

	for _, f := range cfg.Fields {
		v := rec[f.Source]
		if f.Transform != nil {
			v = f.Transform(v)
		}
		out[f.Target] = v
	}

	for _, r := range cfg.Relations {
		raw := ValueOf(rec[r.Source])
		switch {
		case r.Mapper != nil:
			out[r.Target] = r.Mapper(raw)
		case r.IsArray:
			out[r.Target] = []Entity{}
		default:
			out[r.Target] = nil
		}
	}

	return out
}

func MapEntities(cfg EntityMapConfig, recs []Record) []Entity {
	out := make([]Entity, 0, len(recs))
	for _, rec := range recs {
		out = append(out, MapEntity(cfg, rec))
	}
	return out
}
