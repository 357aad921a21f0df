package sqlinline

const QSelectPlatformProfile = `--sql 6a1f0c2e-93b4-4d7a-8e21-5c0b9d3f7a14
select profile
from platform_profiles
where platform = $1;
`

const QListPlatformProfiles = `--sql 2d8e4b71-0f6c-4a93-b5e2-7c1a9f08d356
select platform
from platform_profiles
order by platform asc;
`

const QUpsertPlatformProfile = `--sql c47b2a90-5e13-4f8d-9a6c-1b3e7d204f85
insert into platform_profiles (platform, profile, updated_at)
values ($1, $2, now())
on conflict (platform) do update
set profile = excluded.profile,
    updated_at = now();
`
